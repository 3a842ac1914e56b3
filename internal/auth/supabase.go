package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Bookstore_API/internal/models"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
)

// userLookup verifies a token and returns the user it was issued to
type userLookup func(token string) (*types.User, error)

// supabaseAuth verifies tokens against Supabase GoTrue
type supabaseAuth struct {
	lookup userLookup
	roles  RoleStore
}

// NewSupabaseAuth creates an authenticator backed by the Supabase project at url.
// The stored profile role wins over the token's app metadata when roles is set.
func NewSupabaseAuth(url, serviceKey string, roles RoleStore) (Service, error) {
	client, err := supabase.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	lookup := func(token string) (*types.User, error) {
		resp, err := client.Auth.WithToken(token).GetUser()
		if err != nil {
			return nil, err
		}
		return &resp.User, nil
	}

	return newSupabaseAuth(lookup, roles), nil
}

func newSupabaseAuth(lookup userLookup, roles RoleStore) *supabaseAuth {
	return &supabaseAuth{
		lookup: lookup,
		roles:  roles,
	}
}

// Authenticate resolves a bearer token to the calling user
func (a *supabaseAuth) Authenticate(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", models.ErrUnauthorized)
	}

	user, err := a.lookup(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}

	identity := &Identity{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   metadataRole(user.AppMetadata),
	}

	if a.roles != nil {
		role, err := a.roles.GetRole(ctx, identity.UserID)
		switch {
		case err == nil && role != "":
			identity.Role = role
		case err != nil && !errors.Is(err, models.ErrNotFound):
			return nil, fmt.Errorf("failed to resolve role: %w", err)
		}
	}

	return identity, nil
}

func metadataRole(metadata map[string]interface{}) string {
	if role, ok := metadata["role"].(string); ok && role == models.RoleAdmin {
		return models.RoleAdmin
	}
	return models.RoleCustomer
}
