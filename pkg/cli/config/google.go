package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/guideops/guideops/pkg/service/google"
)

// Google holds CLI flags for federated Google login
type Google struct {
	clientID string
}

func (x *Google) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "google-client-id",
			Usage:       "Google OAuth client ID for federated login",
			Category:    "Google",
			Sources:     cli.EnvVars("GUIDEOPS_GOOGLE_CLIENT_ID"),
			Destination: &x.clientID,
		},
	}
}

func (x Google) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("configured", x.clientID != ""),
	)
}

// IsConfigured checks if federated login is enabled
func (x *Google) IsConfigured() bool {
	return x.clientID != ""
}

// Configure creates an ID token verifier. Returns nil if the client ID is
// not set (federated login will be disabled).
func (x *Google) Configure(ctx context.Context) (google.Verifier, error) {
	if x.clientID == "" {
		return nil, nil
	}

	verifier, err := google.New(ctx, x.clientID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize Google ID token verifier")
	}

	return verifier, nil
}
