package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"easyshop/internal/models"
	"easyshop/internal/service"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/demo.yml
var demoFixtures []byte

// Fixtures is a hand-written data set of profiles and their posts.
type Fixtures struct {
	Profiles []ProfileFixture `yaml:"profiles"`
	Posts    []PostFixture    `yaml:"posts"`
}

type ProfileFixture struct {
	ExternalID string `yaml:"externalId"`
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Role       string `yaml:"role"`
	AvatarRef  string `yaml:"avatarRef"`
	Bio        string `yaml:"bio"`
}

type PostFixture struct {
	Owner       string           `yaml:"owner"`
	Category    string           `yaml:"category"`
	Description string           `yaml:"description"`
	Images      []string         `yaml:"images"`
	Likes       []string         `yaml:"likes"`
	Saves       []string         `yaml:"saves"`
	Comments    []CommentFixture `yaml:"comments"`
}

type CommentFixture struct {
	Author string `yaml:"author"`
	Text   string `yaml:"text"`
}

// ParseFixtures decodes a YAML fixture document.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

// LoadFixtures reads and decodes a fixture file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// DemoFixtures returns the built-in demo data set.
func DemoFixtures() (*Fixtures, error) {
	return ParseFixtures(demoFixtures)
}

// ApplyFixtures creates every profile, post and interaction in f.
// Profiles that already exist are reused.
func (s *Seeder) ApplyFixtures(ctx context.Context, f *Fixtures) (Summary, error) {
	var sum Summary

	byID := make(map[string]*models.Profile, len(f.Profiles))
	for _, pf := range f.Profiles {
		p, err := s.profiles.CreateProfile(ctx, service.CreateProfileInput{
			ExternalID: pf.ExternalID,
			Name:       pf.Name,
			Email:      pf.Email,
			AvatarRef:  pf.AvatarRef,
			Role:       models.Role(pf.Role),
		})
		switch {
		case err == nil:
			sum.Profiles++
		case models.ErrorCode(err) == models.CodeAlreadyExists:
			if p, err = s.profiles.GetProfile(ctx, pf.ExternalID); err != nil {
				return sum, fmt.Errorf("profile %q: %w", pf.ExternalID, err)
			}
		default:
			return sum, fmt.Errorf("profile %q: %w", pf.ExternalID, err)
		}

		if pf.Bio != "" {
			bio := pf.Bio
			if p, err = s.profiles.UpdateProfile(ctx, service.UpdateProfileInput{
				ExternalID: pf.ExternalID,
				Bio:        &bio,
			}); err != nil {
				return sum, fmt.Errorf("profile %q bio: %w", pf.ExternalID, err)
			}
		}
		byID[p.ExternalID] = p
	}

	for i, pf := range f.Posts {
		owner, ok := byID[pf.Owner]
		if !ok {
			return sum, fmt.Errorf("post %d: unknown owner %q", i, pf.Owner)
		}
		post, err := s.posts.CreatePost(ctx, models.NewPostInput{
			OwnerID:        owner.ExternalID,
			OwnerName:      owner.Name,
			OwnerAvatarRef: owner.AvatarRef,
			Category:       pf.Category,
			Images:         pf.Images,
			Description:    pf.Description,
		})
		if err != nil {
			return sum, fmt.Errorf("post %d: %w", i, err)
		}
		sum.Posts++

		for _, uid := range pf.Likes {
			if _, err := s.interactions.ToggleLike(ctx, post.ID, uid); err != nil {
				return sum, fmt.Errorf("post %d like by %q: %w", i, uid, err)
			}
			sum.Likes++
		}
		for _, uid := range pf.Saves {
			if _, err := s.interactions.ToggleSave(ctx, post.ID, uid); err != nil {
				return sum, fmt.Errorf("post %d save by %q: %w", i, uid, err)
			}
			sum.Saves++
		}
		for _, c := range pf.Comments {
			if _, err := s.interactions.AddComment(ctx, post.ID, c.Author, c.Text); err != nil {
				return sum, fmt.Errorf("post %d comment by %q: %w", i, c.Author, err)
			}
			sum.Comments++
		}
	}

	return sum, nil
}
