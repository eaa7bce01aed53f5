package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/guideops/guideops/pkg/cli/config"
	httpctrl "github.com/guideops/guideops/pkg/controller/http"
	"github.com/guideops/guideops/pkg/service/worker"
	"github.com/guideops/guideops/pkg/usecase"
	"github.com/guideops/guideops/pkg/utils/logging"
	"github.com/guideops/guideops/pkg/utils/safe"
)

func cmdServe() *cli.Command {
	var addr string
	var syncInterval time.Duration
	var appCfg config.App
	var repoCfg config.Repository
	var streamCfg config.Stream
	var googleCfg config.Google

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("GUIDEOPS_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "sync-interval",
			Usage:       "Interval of the chat directory sync worker (0 disables it)",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("GUIDEOPS_SYNC_INTERVAL"),
			Destination: &syncInterval,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, streamCfg.Flags()...)
	flags = append(flags, googleCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
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

			chatSvc, err := streamCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Stream Chat client")
			}

			verifier, err := googleCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Google login")
			}
			if verifier != nil {
				logging.Default().Info("Google federated login enabled")
			} else {
				logging.Default().Info("Google client ID not configured, federated login disabled")
			}

			ucOpts := []usecase.Option{
				usecase.WithMasterAdminID(master.ID),
				usecase.WithProtectedChannels(cfg.ProtectedChannels()),
				usecase.WithAutoJoinChannels(cfg.AutoJoinChannels()),
			}
			if verifier != nil {
				ucOpts = append(ucOpts, usecase.WithVerifier(verifier))
			}

			uc := usecase.New(repo, chatSvc, ucOpts...)

			var syncWorker *worker.DirectorySyncWorker
			if syncInterval > 0 {
				syncWorker = worker.NewDirectorySyncWorker(repo, chatSvc, syncInterval)
				if err := syncWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start directory sync worker")
				}
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to listen and serve")
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received signal, shutting down", "signal", sig.String())
			}

			if syncWorker != nil {
				syncWorker.Stop()
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logging.Default().Info("Server stopped")
			return nil
		},
	}
}
