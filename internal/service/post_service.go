package service

import (
	"context"
	"strings"

	"easyshop/internal/middleware"
	"easyshop/internal/models"
	"easyshop/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in models.NewPostInput) (*models.Post, error) {
	post, err := models.NewPost(in)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListFeed returns all posts newest first. A non-empty category (or one of
// its aliases) narrows the feed.
func (s *PostService) ListFeed(ctx context.Context, category string) ([]*models.Post, error) {
	var filter models.Category
	if strings.TrimSpace(category) != "" {
		parsed, err := models.ParseCategory(category)
		if err != nil {
			return nil, err
		}
		filter = parsed
	}
	return s.postRepo.List(ctx, filter)
}

func (s *PostService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Post, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, models.NewFieldValidationError("userId", "userId is required")
	}
	return s.postRepo.ListByOwner(ctx, ownerID)
}

func (s *PostService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, models.NewFieldValidationError("postId", "postId is required")
	}
	return s.postRepo.GetByID(ctx, postID)
}

func (s *PostService) ListComments(ctx context.Context, postID string) (models.CommentThread, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return models.CommentThread{}, err
	}
	return post.Thread(), nil
}

// DeletePost removes a post. A non-empty requesterID must own the post; an
// empty one is allowed and logged.
func (s *PostService) DeletePost(ctx context.Context, postID, requesterID string) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	requesterID = strings.TrimSpace(requesterID)
	switch {
	case requesterID == "":
		middleware.Logger.WarnContext(ctx, "post deleted without requester", "post_id", post.ID, "owner_id", post.OwnerID)
	case requesterID != post.OwnerID:
		return models.NewForbiddenError("only the owner can delete this post")
	}

	return s.postRepo.Delete(ctx, post)
}
