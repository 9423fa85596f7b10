package server

import (
	"easyshop/internal/models"
	"easyshop/internal/service"

	"github.com/gofiber/fiber/v2"
)

type signupRequest struct {
	FirebaseUID    string      `json:"firebaseUid"`
	ExternalID     string      `json:"externalId"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	ProfilePicture string      `json:"profilePicture"`
	AvatarRef      string      `json:"avatarRef"`
	Role           models.Role `json:"role"`
}

type identityRequest struct {
	FirebaseUID string `json:"firebaseUid"`
	ExternalID  string `json:"externalId"`
}

func (r identityRequest) id() string {
	return firstNonEmpty(r.ExternalID, r.FirebaseUID)
}

type updateProfileRequest struct {
	identityRequest
	Name           *string `json:"name"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profilePicture"`
	AvatarRef      *string `json:"avatarRef"`
}

// Signup handles POST /api/auth/signup
// @Summary Register a profile
// @Description Create the local profile for a user authenticated by the identity provider
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{firebaseUid=string,name=string,email=string,profilePicture=string,role=string} true "Signup request"
// @Success 201 {object} object{message=string,user=models.Profile}
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	externalID, err := caller(c, firstNonEmpty(req.ExternalID, req.FirebaseUID))
	if err != nil {
		return respondServiceError(c, err)
	}

	profile, err := s.profileService.CreateProfile(c.UserContext(), service.CreateProfileInput{
		ExternalID: externalID,
		Name:       req.Name,
		Email:      req.Email,
		AvatarRef:  firstNonEmpty(req.AvatarRef, req.ProfilePicture),
		Role:       req.Role,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Profile created",
		"user":    profile,
	})
}

// Signin handles POST /api/auth/signin
// @Summary Sign in
// @Description Fetch the profile of a user who just authenticated with the identity provider
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{firebaseUid=string} true "Signin request"
// @Success 200 {object} object{message=string,user=models.Profile}
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/signin [post]
func (s *Server) Signin(c *fiber.Ctx) error {
	profile, err := s.profileFromBody(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Signed in",
		"user":    profile,
	})
}

// FetchProfile handles POST /api/auth/profile
func (s *Server) FetchProfile(c *fiber.Ctx) error {
	profile, err := s.profileFromBody(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": profile})
}

func (s *Server) profileFromBody(c *fiber.Ctx) (*models.Profile, error) {
	var req identityRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, models.NewValidationError("Invalid request body")
	}
	externalID, err := caller(c, req.id())
	if err != nil {
		return nil, err
	}
	return s.profileService.GetProfile(c.UserContext(), externalID)
}

// GetProfile handles GET /api/profile/:externalId
// @Summary Get a profile
// @Tags profile
// @Produce json
// @Param externalId path string true "External user id"
// @Success 200 {object} object{user=models.Profile}
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{externalId} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.GetProfile(c.UserContext(), c.Params("externalId"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": profile})
}

// UpdateProfile handles PUT /api/profile/update
// @Summary Update a profile
// @Description Absent fields are left unchanged; an empty bio clears it
// @Tags profile
// @Accept json
// @Produce json
// @Param request body object{externalId=string,name=string,bio=string,profilePicture=string} true "Profile changes"
// @Success 200 {object} object{message=string,user=models.Profile}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/update [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	externalID, err := caller(c, req.id())
	if err != nil {
		return respondServiceError(c, err)
	}

	profile, err := s.profileService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		ExternalID: externalID,
		Name:       req.Name,
		Bio:        req.Bio,
		AvatarRef:  firstNonNil(req.AvatarRef, req.ProfilePicture),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated",
		"user":    profile,
	})
}

// GetProfileWithStats handles POST /api/profile/me
// @Summary Profile with stats
// @Tags profile
// @Accept json
// @Produce json
// @Param request body object{externalId=string} true "Profile owner"
// @Success 200 {object} object{user=models.Profile,stats=models.ProfileStats}
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/me [post]
func (s *Server) GetProfileWithStats(c *fiber.Ctx) error {
	var req identityRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	externalID, err := caller(c, req.id())
	if err != nil {
		return respondServiceError(c, err)
	}

	profile, stats, err := s.profileService.GetProfileStats(c.UserContext(), externalID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":  profile,
		"stats": stats,
	})
}

// GetProfilePosts handles GET /api/profile/posts/:externalId
func (s *Server) GetProfilePosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListByOwner(c.UserContext(), c.Params("externalId"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}
