package auth

import (
	"context"

	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/pkg/apperrors"
)

// Identity is the authenticated caller of one request
type Identity struct {
	UserID        int64
	Email         string
	Name          string
	Role          models.RoleType
	InstituteName string
}

// HasRole reports whether the caller holds any of roles
func (i Identity) HasRole(roles ...models.RoleType) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by WithIdentity
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Require returns the identity or a permission error when the context carries none
func Require(ctx context.Context, roles ...models.RoleType) (Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return Identity{}, apperrors.ErrTokenInvalid
	}
	if len(roles) > 0 && !id.HasRole(roles...) {
		return id, apperrors.NewForbiddenError("You don't have sufficient permissions for this operation")
	}
	return id, nil
}
