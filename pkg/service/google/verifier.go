package google

import (
	"context"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
)

const (
	jwksURL = "https://www.googleapis.com/oauth2/v3/certs"
	issuer  = "https://accounts.google.com"
)

// Claims are the identity assertions extracted from a verified ID token
type Claims struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// Verifier validates Google ID tokens presented by federated logins
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Claims, error)
}

type verifier struct {
	clientID string
	cache    *jwk.Cache
}

// New creates a Verifier for the given OAuth client ID. Google's signing keys
// are fetched from the public JWKS endpoint and cached between requests.
func New(ctx context.Context, clientID string) (Verifier, error) {
	if clientID == "" {
		return nil, goerr.New("Google OAuth client ID is required")
	}

	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL); err != nil {
		return nil, goerr.Wrap(err, "failed to register Google JWKS endpoint")
	}

	return &verifier{
		clientID: clientID,
		cache:    cache,
	}, nil
}

// Verify checks the token signature against Google's published keys and
// validates issuer and audience. Claims are trusted only after that.
func (v *verifier) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	keySet, err := v.cache.Get(ctx, jwksURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch Google's public keys", goerr.V("jwks_uri", jwksURL))
	}

	// Allow 10 seconds of clock skew to handle time synchronization differences
	token, err := jwt.Parse([]byte(rawToken),
		jwt.WithKeySet(keySet),
		jwt.WithValidate(true),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(v.clientID),
		jwt.WithAcceptableSkew(10*time.Second),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse or verify ID token")
	}

	claims := &Claims{
		Subject: token.Subject(),
	}
	if claims.Subject == "" {
		return nil, goerr.New("sub claim not found in token")
	}

	email, ok := token.Get("email")
	if !ok {
		return nil, goerr.New("email claim not found in token")
	}
	claims.Email, _ = email.(string)

	if name, ok := token.Get("name"); ok {
		claims.Name, _ = name.(string)
	}
	if picture, ok := token.Get("picture"); ok {
		claims.Picture, _ = picture.(string)
	}

	return claims, nil
}
