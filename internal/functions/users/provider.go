// internal/functions/users/provider.go
package users

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/iterator"
)

// IdentityProvider is the slice of the identity provider these handlers
// consume. Defined here so tests can substitute a mock.
type IdentityProvider interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	DeleteUser(ctx context.Context, uid string) error
	ListUsers(ctx context.Context) ([]*auth.ExportedUserRecord, error)
}

// authProvider adapts *auth.Client to IdentityProvider.
type authProvider struct {
	client *auth.Client
}

func NewAuthProvider(client *auth.Client) IdentityProvider {
	return &authProvider{client: client}
}

func (p *authProvider) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := p.client.GetUserByEmail(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (p *authProvider) DeleteUser(ctx context.Context, uid string) error {
	return p.client.DeleteUser(ctx, uid)
}

// ListUsers drains the provider's own pagination into one slice. The
// provider pages internally; callers only need the full set for counting.
func (p *authProvider) ListUsers(ctx context.Context) ([]*auth.ExportedUserRecord, error) {
	it := p.client.Users(ctx, "")
	var out []*auth.ExportedUserRecord
	for {
		u, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		out = append(out, u)
	}
	return out, nil
}
