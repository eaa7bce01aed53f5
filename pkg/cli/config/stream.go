package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/guideops/guideops/pkg/service/stream"
)

// Stream holds CLI flags for the chat platform client
type Stream struct {
	apiKey    string
	apiSecret string
	timeout   time.Duration
}

func (x *Stream) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "stream-api-key",
			Usage:       "Stream Chat API key",
			Category:    "Stream",
			Sources:     cli.EnvVars("GUIDEOPS_STREAM_API_KEY"),
			Destination: &x.apiKey,
		},
		&cli.StringFlag{
			Name:        "stream-api-secret",
			Usage:       "Stream Chat API secret",
			Category:    "Stream",
			Sources:     cli.EnvVars("GUIDEOPS_STREAM_API_SECRET"),
			Destination: &x.apiSecret,
		},
		&cli.DurationFlag{
			Name:        "stream-timeout",
			Usage:       "HTTP timeout for Stream Chat API calls",
			Category:    "Stream",
			Value:       stream.DefaultTimeout,
			Sources:     cli.EnvVars("GUIDEOPS_STREAM_TIMEOUT"),
			Destination: &x.timeout,
		},
	}
}

func (x Stream) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("api-key.len", len(x.apiKey)),
		slog.Int("api-secret.len", len(x.apiSecret)),
		slog.Duration("timeout", x.timeout),
	)
}

// Configure creates the chat platform client. Both credentials are
// required; the service cannot mint session tokens without them.
func (x *Stream) Configure() (stream.Service, error) {
	if x.apiKey == "" || x.apiSecret == "" {
		return nil, goerr.New("Stream Chat configuration is required: set --stream-api-key and --stream-api-secret")
	}

	svc, err := stream.New(x.apiKey, x.apiSecret, stream.WithTimeout(x.timeout))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize Stream Chat client")
	}

	return svc, nil
}
