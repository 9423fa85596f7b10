package server

import (
	"github.com/gofiber/fiber/v2"
)

// interactionRequest is the body shared by the interaction routes. The post
// id may also come from the path.
type interactionRequest struct {
	PostID    string `json:"postId"`
	UserID    string `json:"userId"`
	CommentID string `json:"commentId"`
	Text      string `json:"text"`
}

func parseInteraction(c *fiber.Ctx) (interactionRequest, error) {
	var req interactionRequest
	if err := c.BodyParser(&req); err != nil {
		return req, err
	}
	req.PostID = firstNonEmpty(c.Params("postId"), req.PostID)
	userID, err := caller(c, req.UserID)
	if err != nil {
		return req, err
	}
	req.UserID = userID
	return req, nil
}

// ToggleLike handles POST /api/posts/like and POST /api/posts/:postId/like
// @Summary Toggle a like
// @Tags interactions
// @Accept json
// @Produce json
// @Param request body object{postId=string,userId=string} true "Like toggle"
// @Success 200 {object} object{likes=[]string}
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /posts/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	req, err := parseInteraction(c)
	if err != nil {
		return interactionError(c, err)
	}

	likes, err := s.interactionService.ToggleLike(c.UserContext(), req.PostID, req.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"likes": likes})
}

// AddComment handles POST /api/posts/comment and POST /api/posts/:postId/comment
// @Summary Add a comment
// @Tags interactions
// @Accept json
// @Produce json
// @Param request body object{postId=string,userId=string,text=string} true "Comment"
// @Success 200 {object} models.CommentThread
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/comment [post]
func (s *Server) AddComment(c *fiber.Ctx) error {
	req, err := parseInteraction(c)
	if err != nil {
		return interactionError(c, err)
	}

	thread, err := s.interactionService.AddComment(c.UserContext(), req.PostID, req.UserID, req.Text)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(thread)
}

// DeleteComment handles POST /api/posts/delete-comment
// @Summary Delete a comment
// @Description Only the author's own comment is removed; anything else is a no-op
// @Tags interactions
// @Accept json
// @Produce json
// @Param request body object{postId=string,commentId=string,userId=string} true "Comment to delete"
// @Success 200 {object} models.CommentThread
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/delete-comment [post]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	req, err := parseInteraction(c)
	if err != nil {
		return interactionError(c, err)
	}

	thread, err := s.interactionService.DeleteComment(c.UserContext(), req.PostID, req.CommentID, req.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(thread)
}

// ToggleSave handles POST /api/posts/save and POST /api/posts/:postId/save
// @Summary Toggle a save
// @Tags interactions
// @Accept json
// @Produce json
// @Param request body object{postId=string,userId=string} true "Save toggle"
// @Success 200 {object} object{savedBy=[]string}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/save [post]
func (s *Server) ToggleSave(c *fiber.Ctx) error {
	req, err := parseInteraction(c)
	if err != nil {
		return interactionError(c, err)
	}

	savedBy, err := s.interactionService.ToggleSave(c.UserContext(), req.PostID, req.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"savedBy": savedBy})
}

// interactionError distinguishes a malformed body from a rejected caller.
func interactionError(c *fiber.Ctx, err error) error {
	if statusFor(err) == fiber.StatusForbidden {
		return respondServiceError(c, err)
	}
	return invalidBody(c)
}
