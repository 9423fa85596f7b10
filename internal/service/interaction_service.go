package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"easyshop/internal/middleware"
	"easyshop/internal/models"
	"easyshop/internal/observability"
	"easyshop/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// maxInteractionAttempts bounds the reload-and-reapply loop after a version conflict.
const maxInteractionAttempts = 5

// InteractionService applies likes, comments and saves to posts. Each call
// reads the post, applies a pure transition and writes it back guarded by
// the post version.
type InteractionService struct {
	postRepo    repository.PostRepository
	profileRepo repository.ProfileRepository
	now         func() time.Time
	newID       func() string
}

func NewInteractionService(postRepo repository.PostRepository, profileRepo repository.ProfileRepository) *InteractionService {
	return &InteractionService{
		postRepo:    postRepo,
		profileRepo: profileRepo,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

// transition mutates post in memory and reports whether it must be persisted.
type transition func(post *models.Post) bool

func (s *InteractionService) ToggleLike(ctx context.Context, postID, userID string) (likes []string, err error) {
	ctx, end := observability.StartSpan(ctx, "InteractionService.ToggleLike", attribute.String("post.id", postID))
	defer func() { end(err) }()

	postID, userID, err = requireIDs(postID, userID)
	if err != nil {
		return nil, err
	}

	post, err := s.apply(ctx, "like", postID, nil, func(p *models.Post) bool {
		p.ToggleLike(userID)
		return true
	})
	if err != nil {
		return nil, err
	}
	return []string(post.Likes), nil
}

func (s *InteractionService) ToggleSave(ctx context.Context, postID, userID string) (savedBy []string, err error) {
	ctx, end := observability.StartSpan(ctx, "InteractionService.ToggleSave", attribute.String("post.id", postID))
	defer func() { end(err) }()

	postID, userID, err = requireIDs(postID, userID)
	if err != nil {
		return nil, err
	}

	post, err := s.apply(ctx, "save", postID, nil, func(p *models.Post) bool {
		p.ToggleSave(userID)
		return true
	})
	if err != nil {
		return nil, err
	}
	return []string(post.SavedBy), nil
}

// AddComment appends a comment authored by userID. The author's name and
// avatar are copied from their current profile.
func (s *InteractionService) AddComment(ctx context.Context, postID, userID, text string) (thread models.CommentThread, err error) {
	ctx, end := observability.StartSpan(ctx, "InteractionService.AddComment", attribute.String("post.id", postID))
	defer func() { end(err) }()

	text = strings.TrimSpace(text)
	if text == "" {
		return models.CommentThread{}, models.NewFieldValidationError("text", "comment text is required")
	}
	postID, userID, err = requireIDs(postID, userID)
	if err != nil {
		return models.CommentThread{}, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return models.CommentThread{}, err
	}
	author, err := s.profileRepo.GetByExternalID(ctx, userID)
	if err != nil {
		return models.CommentThread{}, err
	}

	comment := models.Comment{
		ID:              s.newID(),
		AuthorID:        author.ExternalID,
		AuthorName:      author.Name,
		AuthorAvatarRef: author.AvatarRef,
		Text:            text,
		CreatedAt:       s.now(),
	}

	post, err = s.apply(ctx, "comment", postID, post, func(p *models.Post) bool {
		p.AppendComment(comment)
		return true
	})
	if err != nil {
		return models.CommentThread{}, err
	}
	return post.Thread(), nil
}

// DeleteComment removes commentID if userID wrote it. Any other combination
// leaves the thread untouched and still succeeds.
func (s *InteractionService) DeleteComment(ctx context.Context, postID, commentID, userID string) (thread models.CommentThread, err error) {
	ctx, end := observability.StartSpan(ctx, "InteractionService.DeleteComment",
		attribute.String("post.id", postID), attribute.String("comment.id", commentID))
	defer func() { end(err) }()

	postID, userID, err = requireIDs(postID, userID)
	if err != nil {
		return models.CommentThread{}, err
	}
	commentID = strings.TrimSpace(commentID)
	if commentID == "" {
		return models.CommentThread{}, models.NewFieldValidationError("commentId", "commentId is required")
	}

	post, err := s.apply(ctx, "delete_comment", postID, nil, func(p *models.Post) bool {
		if p.RemoveComment(commentID, userID) {
			return true
		}
		middleware.Logger.InfoContext(ctx, "comment delete no-op",
			"post_id", postID, "comment_id", commentID, "requester_id", userID)
		return false
	})
	if err != nil {
		return models.CommentThread{}, err
	}
	return post.Thread(), nil
}

// apply runs fn against the latest stored post and persists the result with
// a version check, reloading and reapplying on conflict. first, when given,
// is used for the first attempt instead of a fresh read.
func (s *InteractionService) apply(ctx context.Context, action, postID string, first *models.Post, fn transition) (*models.Post, error) {
	for attempt := 1; attempt <= maxInteractionAttempts; attempt++ {
		post := first
		first = nil
		if post == nil {
			var err error
			post, err = s.postRepo.GetByID(ctx, postID)
			if err != nil {
				return nil, err
			}
		}

		if !fn(post) {
			return post, nil
		}

		err := s.postRepo.UpdateInteractions(ctx, post, post.Version)
		if err == nil {
			observability.PostInteractions.WithLabelValues(action).Inc()
			return post, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}

		observability.InteractionConflicts.WithLabelValues(action).Inc()
		middleware.Logger.WarnContext(ctx, "interaction version conflict",
			"post_id", postID, "action", action, "attempt", attempt)
	}

	return nil, models.NewConflictError("post was modified concurrently, please retry", repository.ErrVersionConflict)
}

func requireIDs(postID, userID string) (string, string, error) {
	postID = strings.TrimSpace(postID)
	userID = strings.TrimSpace(userID)
	if postID == "" {
		return "", "", models.NewFieldValidationError("postId", "postId is required")
	}
	if userID == "" {
		return "", "", models.NewFieldValidationError("userId", "userId is required")
	}
	return postID, userID, nil
}
