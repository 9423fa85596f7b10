package service

import (
	"testing"

	"easyshop/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValidationError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	if field != "" {
		assert.Equal(t, field, appErr.Field)
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, models.ErrorCode(err))
}

func mustProfile(t *testing.T, id, name string, role models.Role) *models.Profile {
	t.Helper()
	p, err := models.NewProfile(id, name, id+"@example.com", name+".png", role)
	require.NoError(t, err)
	return p
}

func mustPost(t *testing.T, id, owner string) *models.Post {
	t.Helper()
	p, err := models.NewPost(models.NewPostInput{
		OwnerID:     owner,
		OwnerName:   owner,
		Category:    "women",
		Images:      []string{"blob"},
		Description: "summer dress",
	})
	require.NoError(t, err)
	p.ID = id
	return p
}
