package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"easyshop/internal/models"
	"easyshop/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	getByExternalIDFn func(context.Context, string) (*models.Profile, error)
	getByEmailFn      func(context.Context, string) (*models.Profile, error)
	createFn          func(context.Context, *models.Profile) error
	updateFn          func(context.Context, *models.Profile) error
}

func (s *profileRepoStub) GetByExternalID(ctx context.Context, id string) (*models.Profile, error) {
	return s.getByExternalIDFn(ctx, id)
}
func (s *profileRepoStub) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *profileRepoStub) Create(ctx context.Context, profile *models.Profile) error {
	return s.createFn(ctx, profile)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}

// memProfiles returns a stub backed by a map keyed by external id.
func memProfiles(seed ...*models.Profile) (*profileRepoStub, map[string]*models.Profile) {
	var mu sync.Mutex
	store := map[string]*models.Profile{}
	for _, p := range seed {
		store[p.ExternalID] = p
	}
	clone := func(p *models.Profile) *models.Profile {
		c := *p
		return &c
	}
	return &profileRepoStub{
		getByExternalIDFn: func(_ context.Context, id string) (*models.Profile, error) {
			mu.Lock()
			defer mu.Unlock()
			if p, ok := store[id]; ok {
				return clone(p), nil
			}
			return nil, models.NewNotFoundError("Profile", id)
		},
		getByEmailFn: func(_ context.Context, email string) (*models.Profile, error) {
			mu.Lock()
			defer mu.Unlock()
			for _, p := range store {
				if p.Email == email {
					return clone(p), nil
				}
			}
			return nil, models.NewNotFoundError("Profile", email)
		},
		createFn: func(_ context.Context, p *models.Profile) error {
			mu.Lock()
			defer mu.Unlock()
			store[p.ExternalID] = clone(p)
			return nil
		},
		updateFn: func(_ context.Context, p *models.Profile) error {
			mu.Lock()
			defer mu.Unlock()
			if _, ok := store[p.ExternalID]; !ok {
				return models.NewNotFoundError("Profile", p.ExternalID)
			}
			store[p.ExternalID] = clone(p)
			return nil
		},
	}, store
}

// memPostRepo is an in-memory repository.PostRepository that enforces the
// same version check as the SQL implementation.
type memPostRepo struct {
	mu    sync.Mutex
	posts map[string]*models.Post

	gets    int
	updates int
	// beforeUpdate runs ahead of every conditional write, outside the lock.
	beforeUpdate func(attempt int)
	// forceConflict makes every conditional write lose.
	forceConflict bool
}

var _ repository.PostRepository = (*memPostRepo)(nil)

func newMemPostRepo(seed ...*models.Post) *memPostRepo {
	r := &memPostRepo{posts: map[string]*models.Post{}}
	for _, p := range seed {
		r.posts[p.ID] = clonePost(p)
	}
	return r
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Images = append(datatypes.JSONSlice[string]{}, p.Images...)
	c.Likes = append(datatypes.JSONSlice[string]{}, p.Likes...)
	c.SavedBy = append(datatypes.JSONSlice[string]{}, p.SavedBy...)
	c.Comments = append(datatypes.JSONSlice[models.Comment]{}, p.Comments...)
	return &c
}

func (r *memPostRepo) stored(id string) *models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[id]; ok {
		return clonePost(p)
	}
	return nil
}

func (r *memPostRepo) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *memPostRepo) GetByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	p, ok := r.posts[id]
	if !ok {
		return nil, models.NewNotFoundError("Post", id)
	}
	return clonePost(p), nil
}

func (r *memPostRepo) list(keep func(*models.Post) bool) []*models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Post{}
	for _, p := range r.posts {
		if keep(p) {
			out = append(out, clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memPostRepo) List(_ context.Context, category models.Category) ([]*models.Post, error) {
	return r.list(func(p *models.Post) bool { return category == "" || p.Category == category }), nil
}

func (r *memPostRepo) ListByOwner(_ context.Context, ownerID string) ([]*models.Post, error) {
	return r.list(func(p *models.Post) bool { return p.OwnerID == ownerID }), nil
}

func (r *memPostRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	posts, _ := r.ListByOwner(ctx, ownerID)
	return int64(len(posts)), nil
}

func (r *memPostRepo) Delete(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return models.NewNotFoundError("Post", post.ID)
	}
	delete(r.posts, post.ID)
	return nil
}

func (r *memPostRepo) UpdateInteractions(_ context.Context, post *models.Post, expectedVersion int64) error {
	r.mu.Lock()
	r.updates++
	attempt := r.updates
	hook := r.beforeUpdate
	r.mu.Unlock()

	if hook != nil {
		hook(attempt)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[post.ID]
	if !ok || r.forceConflict || stored.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	next := clonePost(post)
	next.Version = expectedVersion + 1
	r.posts[post.ID] = next
	post.Version = next.Version
	return nil
}

// concurrentWrite applies fn to the stored post and bumps its version, as a
// competing writer would.
func (r *memPostRepo) concurrentWrite(id string, fn func(*models.Post)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.posts[id]
	fn(p)
	p.Version++
}
