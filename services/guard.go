package services

import (
	"context"
	"time"

	"github.com/cppla/inkblog/utils"
)

// Identity is the authenticated caller carried through a request.
type Identity struct {
	UserID uint
	Name   string
}

// Guard authenticates bearer tokens and enforces resource ownership.
type Guard struct {
	tokens    *utils.TokenManager
	blacklist *utils.TokenBlacklist
}

// NewGuard builds a Guard. blacklist may be nil when logout is not supported.
func NewGuard(tokens *utils.TokenManager, blacklist *utils.TokenBlacklist) *Guard {
	return &Guard{tokens: tokens, blacklist: blacklist}
}

// Authenticate verifies the token's signature, expiry and revocation status.
func (g *Guard) Authenticate(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, utils.Unauthorized("Unauthorized. No token.")
	}
	claims, err := g.tokens.Parse(token)
	if err != nil {
		return Identity{}, utils.Unauthorized("Unauthorized. Invalid token.").Wrap(err)
	}
	if g.blacklist != nil && g.blacklist.IsRevoked(ctx, token) {
		return Identity{}, utils.Unauthorized("Unauthorized. Token revoked.")
	}
	return Identity{UserID: claims.UserID, Name: claims.Name}, nil
}

// Revoke invalidates token until its natural expiry.
func (g *Guard) Revoke(ctx context.Context, token string) error {
	if g.blacklist == nil {
		return nil
	}
	claims, err := g.tokens.Parse(token)
	if err != nil {
		return utils.Unauthorized("Unauthorized. Invalid token.").Wrap(err)
	}
	expiresAt := time.Now().Add(g.tokens.TTL())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := g.blacklist.Revoke(ctx, token, expiresAt); err != nil {
		return utils.Internal(err, "Logout failed.")
	}
	return nil
}

// AuthorizeOwner allows the action only when actor owns the resource.
func AuthorizeOwner(ownerID, actorID uint, resource string) error {
	if ownerID == 0 || ownerID != actorID {
		return utils.Forbidden("You are not authorized to modify this %s.", resource)
	}
	return nil
}
