package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/guideops/guideops/pkg/domain/model"
	"github.com/guideops/guideops/pkg/domain/types"
	"github.com/guideops/guideops/pkg/usecase"
)

// App holds the CLI flag pointing at the TOML application configuration
type App struct {
	path string
}

func (x *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path of the application configuration file (TOML)",
			Category:    "App",
			Sources:     cli.EnvVars("GUIDEOPS_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Configure loads the application configuration. Without a path the
// built-in defaults apply.
func (x *App) Configure() (*AppConfig, error) {
	if x.path == "" {
		cfg := defaultAppConfig()
		return &cfg, nil
	}
	return LoadAppConfiguration(x.path)
}

// AppConfig represents the application configuration
type AppConfig struct {
	MasterAdmin      MasterAdmin `toml:"master_admin"`
	ProtectedChannel []Channel   `toml:"protected_channel"`
	AutoJoinChannel  []Channel   `toml:"auto_join_channel"`
}

// MasterAdmin configures the distinguished admin account
type MasterAdmin struct {
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// Channel references a chat channel by type and ID
type Channel struct {
	Type string `toml:"type"`
	ID   string `toml:"id"`
}

// Validate checks if the Channel is valid
func (c *Channel) Validate() error {
	ref := model.ChannelRef{Type: c.Type, ID: c.ID}
	if err := ref.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidChannel, err.Error(), goerr.V("type", c.Type), goerr.V("id", c.ID))
	}
	return nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		ProtectedChannel: []Channel{
			{Type: model.DefaultProtectedChannel.Type, ID: model.DefaultProtectedChannel.ID},
		},
	}
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if a.MasterAdmin.ID != "" {
		if err := types.UserID(a.MasterAdmin.ID).Validate(); err != nil {
			return goerr.Wrap(ErrInvalidConfig, "invalid master admin ID", goerr.V("id", a.MasterAdmin.ID))
		}
	}

	for _, list := range [][]Channel{a.ProtectedChannel, a.AutoJoinChannel} {
		seen := make(map[Channel]bool)
		for _, ch := range list {
			if err := ch.Validate(); err != nil {
				return err
			}
			if seen[ch] {
				return goerr.Wrap(ErrDuplicateChannel, "channel listed twice",
					goerr.V("type", ch.Type), goerr.V("id", ch.ID))
			}
			seen[ch] = true
		}
	}

	return nil
}

// MasterAdminSeed converts the configured master admin into a seed record
func (a *AppConfig) MasterAdminSeed() usecase.MasterAdminSeed {
	return usecase.MasterAdminSeed{
		ID:    types.UserID(a.MasterAdmin.ID),
		Name:  a.MasterAdmin.Name,
		Email: a.MasterAdmin.Email,
	}
}

// ProtectedChannels returns the channels exempt from mutation
func (a *AppConfig) ProtectedChannels() []model.ChannelRef {
	return toChannelRefs(a.ProtectedChannel)
}

// AutoJoinChannels returns the channels new registrations are added to
func (a *AppConfig) AutoJoinChannels() []model.ChannelRef {
	return toChannelRefs(a.AutoJoinChannel)
}

func toChannelRefs(channels []Channel) []model.ChannelRef {
	refs := make([]model.ChannelRef, len(channels))
	for i, ch := range channels {
		refs[i] = model.ChannelRef{Type: ch.Type, ID: ch.ID}
	}
	return refs
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, path)
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	config := defaultAppConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V("path", path))
	}

	return &config, nil
}
