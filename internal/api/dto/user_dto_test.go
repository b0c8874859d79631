package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/storefront-service/internal/domain"
)

func TestUserResponseOmitsPasswordHash(t *testing.T) {
	user := &domain.User{ID: "u1", Name: "A", Email: "a@x.com", PasswordHash: "$2a$12$secret", IsAdmin: true}

	raw, err := json.Marshal(NewUserResponse(user))
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "password")
	assert.Contains(t, string(raw), `"isAdmin":true`)
}

func TestProductResponseIncludesCategory(t *testing.T) {
	p := &domain.Product{ID: "p1", Title: "Phone", CategoryID: "c1", Category: &domain.Category{ID: "c1", Name: "electronics"}}

	raw, err := json.Marshal(NewProductResponse(p))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Category":{"id":"c1","name":"electronics"}`)

	p.Category = nil
	raw, err = json.Marshal(NewProductResponse(p))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"Category"`)
}
