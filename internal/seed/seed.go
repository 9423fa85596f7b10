package seed

import (
	"context"
	"fmt"
	"log"

	"easyshop/internal/cache"
	"easyshop/internal/models"
	"easyshop/internal/repository"
	"easyshop/internal/service"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumStoreOwners int
	NumClients     int
	NumPosts       int
	ShouldClean    bool
	// Seed makes generated data reproducible; zero picks a random seed.
	Seed int64
}

// Summary counts what a seeding run created.
type Summary struct {
	Profiles int
	Posts    int
	Likes    int
	Comments int
	Saves    int
}

// Seeder writes demo data through the regular services so every record
// satisfies the same rules as API-created data.
type Seeder struct {
	db           *gorm.DB
	profiles     *service.ProfileService
	posts        *service.PostService
	interactions *service.InteractionService
}

// NewSeeder creates a new Seeder bound to db.
func NewSeeder(db *gorm.DB) *Seeder {
	profileRepo := repository.NewProfileRepository(db)
	postRepo := repository.NewPostRepository(db)
	return &Seeder{
		db:           db,
		profiles:     service.NewProfileService(profileRepo, postRepo),
		posts:        service.NewPostService(postRepo),
		interactions: service.NewInteractionService(postRepo, profileRepo),
	}
}

// ClearAll deletes every post and profile and drops cached post lists.
func (s *Seeder) ClearAll(ctx context.Context) error {
	log.Println("Cleaning database...")
	tx := s.db.Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := tx.Delete(&models.Post{}).Error; err != nil {
		return fmt.Errorf("clear posts: %w", err)
	}
	if err := tx.Delete(&models.Profile{}).Error; err != nil {
		return fmt.Errorf("clear profiles: %w", err)
	}
	if err := cache.InvalidateAll(ctx); err != nil {
		log.Printf("Warning: failed to drop cached post lists: %v", err)
	}
	return nil
}

// Run generates profiles, posts and interactions according to opts.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary

	if opts.ShouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return sum, err
		}
	}
	if opts.NumPosts > 0 && opts.NumStoreOwners <= 0 {
		return sum, fmt.Errorf("posts need at least one store owner")
	}

	f := NewFactory(opts.Seed)

	owners, err := s.createProfiles(ctx, f, models.RoleStoreOwner, opts.NumStoreOwners)
	if err != nil {
		return sum, err
	}
	clients, err := s.createProfiles(ctx, f, models.RoleClient, opts.NumClients)
	if err != nil {
		return sum, err
	}
	sum.Profiles = len(owners) + len(clients)

	ownerIDs := make([]string, len(owners))
	for i, o := range owners {
		ownerIDs[i] = o.ExternalID
	}
	clientIDs := make([]string, len(clients))
	for i, c := range clients {
		clientIDs[i] = c.ExternalID
	}
	byID := make(map[string]*models.Profile, len(owners))
	for _, o := range owners {
		byID[o.ExternalID] = o
	}

	for i := 0; i < opts.NumPosts; i++ {
		owner := byID[f.Pick(ownerIDs)]
		post, err := s.posts.CreatePost(ctx, f.Post(owner))
		if err != nil {
			return sum, fmt.Errorf("create post: %w", err)
		}
		sum.Posts++

		for _, clientID := range clientIDs {
			if f.Chance(40) {
				if _, err := s.interactions.ToggleLike(ctx, post.ID, clientID); err != nil {
					return sum, fmt.Errorf("like post: %w", err)
				}
				sum.Likes++
			}
			if f.Chance(15) {
				if _, err := s.interactions.AddComment(ctx, post.ID, clientID, f.Comment()); err != nil {
					return sum, fmt.Errorf("comment post: %w", err)
				}
				sum.Comments++
			}
			if f.Chance(10) {
				if _, err := s.interactions.ToggleSave(ctx, post.ID, clientID); err != nil {
					return sum, fmt.Errorf("save post: %w", err)
				}
				sum.Saves++
			}
		}
	}

	log.Printf("Seeded %d profiles, %d posts, %d likes, %d comments, %d saves",
		sum.Profiles, sum.Posts, sum.Likes, sum.Comments, sum.Saves)
	return sum, nil
}

func (s *Seeder) createProfiles(ctx context.Context, f *Factory, role models.Role, n int) ([]*models.Profile, error) {
	out := make([]*models.Profile, 0, n)
	for i := 0; i < n; i++ {
		id, name, email, avatar := f.Profile(role)
		p, err := s.profiles.CreateProfile(ctx, service.CreateProfileInput{
			ExternalID: id,
			Name:       name,
			Email:      email,
			AvatarRef:  avatar,
			Role:       role,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s profile: %w", role, err)
		}
		out = append(out, p)
	}
	return out, nil
}
