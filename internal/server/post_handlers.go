package server

import (
	"easyshop/internal/models"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	UserID             string   `json:"userId"`
	Username           string   `json:"username"`
	UserProfilePicture string   `json:"userProfilePicture"`
	Category           string   `json:"category"`
	Images             []string `json:"images"`
	Description        string   `json:"description"`
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body object{userId=string,username=string,userProfilePicture=string,category=string,images=[]string,description=string} true "New post"
// @Success 201 {object} object{message=string,post=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	ownerID, err := caller(c, req.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	post, err := s.postService.CreatePost(c.UserContext(), models.NewPostInput{
		OwnerID:        ownerID,
		OwnerName:      req.Username,
		OwnerAvatarRef: req.UserProfilePicture,
		Category:       req.Category,
		Images:         req.Images,
		Description:    req.Description,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created",
		"post":    post,
	})
}

// ListPosts handles GET /api/posts
// @Summary List the feed
// @Description All posts, newest first, optionally filtered by category
// @Tags posts
// @Produce json
// @Param category query string false "men, women or children"
// @Success 200 {object} object{posts=[]models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) ListPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListFeed(c.UserContext(), c.Query("category"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// ListPostsByOwner handles GET /api/posts/user/:userId
func (s *Server) ListPostsByOwner(c *fiber.Ctx) error {
	posts, err := s.postService.ListByOwner(c.UserContext(), c.Params("userId"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost handles GET /api/posts/:postId
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param postId path string true "Post id"
// @Success 200 {object} object{post=models.Post}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), c.Params("postId"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"post": post})
}

// ListComments handles GET /api/posts/:postId/comments
func (s *Server) ListComments(c *fiber.Ctx) error {
	thread, err := s.postService.ListComments(c.UserContext(), c.Params("postId"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(thread)
}

// DeletePost handles DELETE /api/posts/:postId
// @Summary Delete a post
// @Description When a requester is known it must own the post
// @Tags posts
// @Produce json
// @Param postId path string true "Post id"
// @Param requesterId query string false "Requesting user id"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	explicit := c.Query("requesterId")
	if explicit == "" && len(c.Body()) > 0 {
		var req struct {
			RequesterID string `json:"requesterId"`
			UserID      string `json:"userId"`
		}
		if err := c.BodyParser(&req); err == nil {
			explicit = firstNonEmpty(req.RequesterID, req.UserID)
		}
	}

	requesterID, err := caller(c, explicit)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.postService.DeletePost(c.UserContext(), c.Params("postId"), requesterID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}
