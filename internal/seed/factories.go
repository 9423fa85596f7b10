// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"strings"

	"easyshop/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds profile and post inputs with fake but plausible content.
type Factory struct {
	faker *gofakeit.Faker
	n     int
}

// NewFactory returns a Factory; a zero seed picks a random one.
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

var categories = []models.Category{models.CategoryMen, models.CategoryWomen, models.CategoryChildren}

// Profile returns sign-up fields for a new profile with the given role.
func (f *Factory) Profile(role models.Role) (externalID, name, email, avatarRef string) {
	f.n++
	first, last := f.faker.FirstName(), f.faker.LastName()
	externalID = strings.ReplaceAll(f.faker.UUID(), "-", "")[:28]
	name = first + " " + last
	if role == models.RoleStoreOwner {
		name = fmt.Sprintf("%s %s", last, f.faker.RandomString([]string{"Boutique", "Atelier", "Store", "Market"}))
	}
	email = strings.ToLower(fmt.Sprintf("%s.%s.%d@example.com", first, last, f.n))
	avatarRef = fmt.Sprintf("https://picsum.photos/seed/avatar-%s/200/200", externalID)
	return externalID, name, email, avatarRef
}

// Post returns the input for a post owned by owner.
func (f *Factory) Post(owner *models.Profile) models.NewPostInput {
	count := f.faker.Number(1, 4)
	images := make([]string, count)
	for i := range images {
		images[i] = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID())
	}

	return models.NewPostInput{
		OwnerID:        owner.ExternalID,
		OwnerName:      owner.Name,
		OwnerAvatarRef: owner.AvatarRef,
		Category:       string(categories[f.faker.Number(0, len(categories)-1)]),
		Images:         images,
		Description: fmt.Sprintf("%s %s %s. %s",
			f.faker.Color(), f.faker.Adjective(), f.faker.Noun(), f.faker.Sentence(8)),
	}
}

// Comment returns a short comment text.
func (f *Factory) Comment() string {
	return f.faker.Sentence(f.faker.Number(3, 10))
}

// Chance reports true with probability percent/100.
func (f *Factory) Chance(percent int) bool {
	return f.faker.Number(1, 100) <= percent
}

// Pick returns a random element of ids.
func (f *Factory) Pick(ids []string) string {
	return ids[f.faker.Number(0, len(ids)-1)]
}
