package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/guideops/guideops/pkg/cli/config"
	"github.com/guideops/guideops/pkg/usecase"
	"github.com/guideops/guideops/pkg/utils/safe"
)

func cmdSeed() *cli.Command {
	var password string
	var appCfg config.App
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "password",
			Usage:       "Master admin password (prompted interactively when omitted)",
			Sources:     cli.EnvVars("GUIDEOPS_MASTER_ADMIN_PASSWORD"),
			Destination: &password,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Create the master admin account and set its password",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
			}

			repo, err := repoCfg.Configure(ctx, nil)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			master, err := usecase.EnsureMasterAdmin(ctx, repo, cfg.MasterAdminSeed())
			if err != nil {
				return goerr.Wrap(err, "failed to ensure master admin account")
			}

			if password == "" {
				pw, err := promptPassword()
				if err != nil {
					return err
				}
				password = pw
			}

			if err := usecase.SetMasterAdminPassword(ctx, repo, master.ID, password); err != nil {
				return goerr.Wrap(err, "failed to set master admin password")
			}

			color.Green("✓ master admin %q is ready", master.ID)
			return nil
		},
	}
}

func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", goerr.New("no password given and stdin is not a terminal; use --password")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read password")
	}

	fmt.Fprint(os.Stderr, "Confirm: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read password confirmation")
	}

	if string(first) != string(second) {
		return "", goerr.New("passwords do not match")
	}

	return string(first), nil
}
