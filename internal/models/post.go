package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Category is the closed set of product categories a post can be filed under.
type Category string

const (
	CategoryMen      Category = "men"
	CategoryWomen    Category = "women"
	CategoryChildren Category = "children"
)

// categoryAliases maps accepted input spellings, including the mobile
// client's French labels, onto the canonical category.
var categoryAliases = map[string]Category{
	"men":      CategoryMen,
	"homme":    CategoryMen,
	"women":    CategoryWomen,
	"femme":    CategoryWomen,
	"children": CategoryChildren,
	"enfant":   CategoryChildren,
}

// ParseCategory normalizes raw into a Category.
func ParseCategory(raw string) (Category, error) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", NewFieldValidationError("category", "category must be one of men, women, children")
	}
	return c, nil
}

// Comment is embedded in its parent post; its ID is only unique within that post.
type Comment struct {
	ID              string    `json:"id"`
	AuthorID        string    `json:"authorId"`
	AuthorName      string    `json:"authorName"`
	AuthorAvatarRef string    `json:"authorAvatarRef"`
	Text            string    `json:"text"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Post is a storeowner's product post. Likes, comments and saves are embedded
// in the row and rewritten as a whole on every interaction.
type Post struct {
	ID             string                       `gorm:"primaryKey;size:36" json:"id"`
	OwnerID        string                       `gorm:"not null;index;size:128" json:"ownerId"`
	OwnerName      string                       `gorm:"not null" json:"ownerName"`
	OwnerAvatarRef string                       `gorm:"type:text" json:"ownerAvatarRef"`
	Category       Category                     `gorm:"not null;index;size:16" json:"category"`
	Images         datatypes.JSONSlice[string]  `gorm:"not null" json:"images"`
	Description    string                       `gorm:"type:text;not null" json:"description"`
	Likes          datatypes.JSONSlice[string]  `json:"likes"`
	Comments       datatypes.JSONSlice[Comment] `json:"comments"`
	CommentsCount  int                          `gorm:"not null;default:0" json:"commentsCount"`
	SavedBy        datatypes.JSONSlice[string]  `json:"savedBy"`
	// Version guards interaction writes against lost updates.
	Version   int64     `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentThread is a post's comment list with its denormalized count.
type CommentThread struct {
	Comments      []Comment `json:"comments"`
	CommentsCount int       `json:"commentsCount"`
}

// Thread returns the post's comments and count.
func (p *Post) Thread() CommentThread {
	comments := make([]Comment, len(p.Comments))
	copy(comments, p.Comments)
	return CommentThread{Comments: comments, CommentsCount: p.CommentsCount}
}

// NewPostInput carries the fields a storeowner supplies when publishing.
type NewPostInput struct {
	OwnerID        string
	OwnerName      string
	OwnerAvatarRef string
	Category       string
	Images         []string
	Description    string
}

// NewPost validates in and builds a post with empty interaction collections.
func NewPost(in NewPostInput) (*Post, error) {
	ownerID := strings.TrimSpace(in.OwnerID)
	ownerName := strings.TrimSpace(in.OwnerName)
	description := strings.TrimSpace(in.Description)

	if ownerID == "" {
		return nil, NewFieldValidationError("userId", "userId is required")
	}
	if ownerName == "" {
		return nil, NewFieldValidationError("username", "username is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, NewFieldValidationError("category", "category is required")
	}
	category, err := ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	if len(in.Images) == 0 {
		return nil, NewFieldValidationError("images", "at least one image is required")
	}
	for _, img := range in.Images {
		if strings.TrimSpace(img) == "" {
			return nil, NewFieldValidationError("images", "images must not contain empty entries")
		}
	}
	if description == "" {
		return nil, NewFieldValidationError("description", "description is required")
	}

	images := make(datatypes.JSONSlice[string], len(in.Images))
	copy(images, in.Images)

	return &Post{
		OwnerID:        ownerID,
		OwnerName:      ownerName,
		OwnerAvatarRef: in.OwnerAvatarRef,
		Category:       category,
		Images:         images,
		Description:    description,
		Likes:          datatypes.JSONSlice[string]{},
		Comments:       datatypes.JSONSlice[Comment]{},
		CommentsCount:  0,
		SavedBy:        datatypes.JSONSlice[string]{},
	}, nil
}

// ToggleLike flips userID's membership in Likes and reports whether the
// post is now liked by userID.
func (p *Post) ToggleLike(userID string) bool {
	var liked bool
	p.Likes, liked = toggleMember(p.Likes, userID)
	return liked
}

// ToggleSave flips userID's membership in SavedBy and reports whether the
// post is now saved by userID.
func (p *Post) ToggleSave(userID string) bool {
	var saved bool
	p.SavedBy, saved = toggleMember(p.SavedBy, userID)
	return saved
}

// AppendComment adds c at the end of the thread.
func (p *Post) AppendComment(c Comment) {
	p.Comments = append(p.Comments, c)
	p.syncCommentsCount()
}

// RemoveComment deletes the comment with the given id only when it was
// written by authorID. It reports whether anything was removed.
func (p *Post) RemoveComment(commentID, authorID string) bool {
	kept := make(datatypes.JSONSlice[Comment], 0, len(p.Comments))
	removed := false
	for _, c := range p.Comments {
		if c.ID == commentID && c.AuthorID == authorID {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	p.Comments = kept
	p.syncCommentsCount()
	return removed
}

// syncCommentsCount restores CommentsCount == len(Comments). Every transition
// that touches Comments must end with it.
func (p *Post) syncCommentsCount() {
	p.CommentsCount = len(p.Comments)
}

// AfterFind replaces JSON nulls with empty collections so responses always
// carry arrays.
func (p *Post) AfterFind(_ *gorm.DB) error {
	if p.Images == nil {
		p.Images = datatypes.JSONSlice[string]{}
	}
	if p.Likes == nil {
		p.Likes = datatypes.JSONSlice[string]{}
	}
	if p.Comments == nil {
		p.Comments = datatypes.JSONSlice[Comment]{}
	}
	if p.SavedBy == nil {
		p.SavedBy = datatypes.JSONSlice[string]{}
	}
	return nil
}

func toggleMember(set datatypes.JSONSlice[string], id string) (datatypes.JSONSlice[string], bool) {
	out := make(datatypes.JSONSlice[string], 0, len(set)+1)
	present := false
	for _, v := range set {
		if v == id {
			present = true
			continue
		}
		out = append(out, v)
	}
	if present {
		return out, false
	}
	return append(out, id), true
}
