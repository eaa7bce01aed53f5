package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/guideops/guideops/pkg/domain/interfaces"
	"github.com/guideops/guideops/pkg/service/stream"
	"github.com/guideops/guideops/pkg/utils/logging"
)

// DefaultSyncConcurrency bounds parallel directory pushes per cycle
const DefaultSyncConcurrency = 4

// DirectorySyncWorker periodically re-pushes every local user record into the
// chat platform directory. Logins already refresh the directory entry of the
// user logging in; this worker heals vendor-side drift for everyone else
// (e.g. a role edited directly in the vendor dashboard), keeping the local
// store authoritative.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type DirectorySyncWorker struct {
	repo        interfaces.Repository
	chatService stream.Service
	interval    time.Duration
	concurrency int
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// NewDirectorySyncWorker creates a worker syncing the local store into the
// chat directory every interval
func NewDirectorySyncWorker(repo interfaces.Repository, chatSvc stream.Service, interval time.Duration) *DirectorySyncWorker {
	return &DirectorySyncWorker{
		repo:        repo,
		chatService: chatSvc,
		interval:    interval,
		concurrency: DefaultSyncConcurrency,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start begins the background sync loop. The initial sync runs in the same
// goroutine as the loop and does not block server startup.
func (w *DirectorySyncWorker) Start(ctx context.Context) error {
	logging.Default().Info("directory sync worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *DirectorySyncWorker) Stop() {
	logging.Default().Info("directory sync worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("directory sync worker stopped")
}

func (w *DirectorySyncWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.sync(ctx); err != nil {
		logging.Default().Error("initial directory sync failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.sync(ctx); err != nil {
				// Log error but continue worker
				logging.Default().Error("directory sync failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("directory sync worker context cancelled")
			return
		}
	}
}

// sync performs a single reconciliation cycle
func (w *DirectorySyncWorker) sync(ctx context.Context) error {
	start := time.Now()

	users, err := w.repo.User().GetAll(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list local users")
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(w.concurrency)

	for _, user := range users {
		eg.Go(func() error {
			identity := &stream.Identity{
				ID:       user.ID.String(),
				Name:     user.Name,
				Email:    user.Email,
				Role:     user.Role.String(),
				ImageURL: user.AvatarURL(),
				GoogleID: user.GoogleID,
			}
			if err := w.chatService.UpsertUser(egCtx, identity); err != nil {
				return goerr.Wrap(err, "failed to push user to chat directory", goerr.V("id", user.ID))
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	logging.Default().Info("directory sync completed",
		"users", len(users),
		"duration", time.Since(start).String())
	return nil
}
