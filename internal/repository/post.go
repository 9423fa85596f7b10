package repository

import (
	"context"
	"time"

	"easyshop/internal/cache"
	"easyshop/internal/models"
	"easyshop/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, category models.Category) ([]*models.Post, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Post, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	Delete(ctx context.Context, post *models.Post) error
	// UpdateInteractions persists likes, comments and saves only if the row
	// is still at expectedVersion, and returns ErrVersionConflict otherwise.
	UpdateInteractions(ctx context.Context, post *models.Post, expectedVersion int64) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePostLists(ctx, string(post.Category), post.OwnerID)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	defer observability.TrackQuery("select", "posts")()

	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, translate(err, "Post", id)
	}
	return &post, nil
}

// List returns every post, newest first, optionally restricted to category.
func (r *postRepository) List(ctx context.Context, category models.Category) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := cache.Aside(ctx, cache.FeedKey(string(category)), &posts, cache.FeedTTL, func() error {
		defer observability.TrackQuery("select", "posts")()

		query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
		if category != "" {
			query = query.Where("category = ?", category)
		}
		if err := query.Find(&posts).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := cache.Aside(ctx, cache.OwnerPostsKey(ownerID), &posts, cache.OwnerPostsTTL, func() error {
		defer observability.TrackQuery("select", "posts")()

		err := r.db.WithContext(ctx).
			Where("owner_id = ?", ownerID).
			Order("created_at DESC").
			Order("id DESC").
			Find(&posts).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	defer observability.TrackQuery("count", "posts")()

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) Delete(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("delete", "posts")()

	result := r.db.WithContext(ctx).Where("id = ?", post.ID).Delete(&models.Post{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	cache.InvalidatePostLists(ctx, string(post.Category), post.OwnerID)
	return nil
}

func (r *postRepository) UpdateInteractions(ctx context.Context, post *models.Post, expectedVersion int64) error {
	defer observability.TrackQuery("update", "posts")()

	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND version = ?", post.ID, expectedVersion).
		Updates(map[string]any{
			"likes":          post.Likes,
			"comments":       post.Comments,
			"comments_count": post.CommentsCount,
			"saved_by":       post.SavedBy,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     now,
		})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}

	post.Version = expectedVersion + 1
	post.UpdatedAt = now
	cache.InvalidatePostLists(ctx, string(post.Category), post.OwnerID)
	return nil
}
