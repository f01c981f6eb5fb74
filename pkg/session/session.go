package session

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoIdentity is returned when a call that requires an authenticated user
// is attempted without a session identity.
var ErrNoIdentity = errors.New("no session identity")

// Identity is the authenticated user attached to a request. It is injected
// by the auth middleware and passed explicitly through the context to every
// backend call that needs it.
type Identity struct {
	UserID uint
	Email  string
	Role   string

	// Token is the raw bearer token, forwarded to the backend on
	// user-scoped calls.
	Token string
}

// Claims represents the JWT claims for user authentication
type Claims struct {
	Email  string `json:"email"`
	UserID uint   `json:"user_id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates session tokens issued by the auth backend.
type Verifier struct {
	key []byte
}

// NewVerifier creates a Verifier for the given signing key.
func NewVerifier(signingKey string) *Verifier {
	return &Verifier{key: []byte(signingKey)}
}

// Verify validates and parses the JWT token, returning the session identity
// it carries.
func (v *Verifier) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.UserID == 0 {
		return nil, errors.New("token does not carry a user_id")
	}

	return &Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
		Token:  tokenString,
	}, nil
}

type contextKey string

const identityKey contextKey = "session-identity"

// WithIdentity attaches the session identity to the context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext retrieves the session identity from the context.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok && id != nil
}
