package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/guideops/guideops/pkg/domain/interfaces"
	"github.com/guideops/guideops/pkg/domain/model"
	"github.com/guideops/guideops/pkg/domain/types"
	"github.com/guideops/guideops/pkg/utils/logging"
)

type userRepository struct {
	mu    sync.RWMutex
	path  string
	users map[types.UserID]*model.User
}

var _ interfaces.UserRepository = &userRepository{}

func newUserRepository(ctx context.Context, path string, seed *model.User) (*userRepository, error) {
	r := &userRepository{
		path:  path,
		users: make(map[types.UserID]*model.User),
	}

	if err := r.load(ctx, seed); err != nil {
		return nil, err
	}

	return r, nil
}

// load reads the persisted store. Missing and corrupt files both reseed
// rather than fail: a fresh deployment must stay operable, and a corrupt
// store is useless either way (the damaged file is kept aside for forensics).
func (r *userRepository) load(ctx context.Context, seed *model.User) error {
	logger := logging.From(ctx)

	data, err := os.ReadFile(r.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Info("user store not found, seeding fresh store", "path", r.path)
		return r.reseed(seed)

	case err != nil:
		return goerr.Wrap(err, "failed to read user store", goerr.V("path", r.path))
	}

	var users map[types.UserID]*model.User
	if err := json.Unmarshal(data, &users); err != nil {
		backup := r.path + ".corrupt"
		if renameErr := os.Rename(r.path, backup); renameErr == nil {
			logger.Warn("user store is corrupt, moved aside and reseeding",
				"path", r.path, "backup", backup, "error", err.Error())
		} else {
			logger.Warn("user store is corrupt, reseeding", "path", r.path, "error", err.Error())
		}
		return r.reseed(seed)
	}

	r.users = users
	logger.Info("loaded user store", "path", r.path, "users", len(users))
	return nil
}

func (r *userRepository) reseed(seed *model.User) error {
	r.users = make(map[types.UserID]*model.User)
	if seed != nil {
		seedCopy := *seed
		r.users[seed.ID] = &seedCopy
	}
	return r.persist()
}

// persist rewrites the whole store with write-then-rename semantics. The
// caller must hold the write lock (or be the only reachable goroutine,
// as during load).
func (r *userRepository) persist() error {
	data, err := json.MarshalIndent(r.users, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to serialize user store")
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp store file", goerr.V("dir", dir))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to write temp store file", goerr.V("path", tmpName))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to close temp store file", goerr.V("path", tmpName))
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to replace user store", goerr.V("path", r.path))
	}

	return nil
}

// GetAll retrieves all users from the store
func (r *userRepository) GetAll(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		userCopy := *user
		users = append(users, &userCopy)
	}

	return users, nil
}

// GetByID retrieves a single user by ID
func (r *userRepository) GetByID(ctx context.Context, id types.UserID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrUserNotFound, "user not found", goerr.V("id", id))
	}

	userCopy := *user
	return &userCopy, nil
}

// GetByEmail retrieves a single user by normalized email. Linear scan;
// fine at the scale of an admin-managed user base.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = model.NormalizeEmail(email)
	for _, user := range r.users {
		if user.Email == email {
			userCopy := *user
			return &userCopy, nil
		}
	}

	return nil, goerr.Wrap(interfaces.ErrUserNotFound, "user not found", goerr.V("email", email))
}

// Put creates or replaces a user record and persists the store
func (r *userRepository) Put(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	userCopy := *user
	userCopy.Email = model.NormalizeEmail(user.Email)

	prev, existed := r.users[user.ID]
	r.users[user.ID] = &userCopy

	if err := r.persist(); err != nil {
		// Roll back the in-memory view so it keeps matching the file
		if existed {
			r.users[user.ID] = prev
		} else {
			delete(r.users, user.ID)
		}
		return err
	}

	return nil
}

// Delete removes a user record and persists the store
func (r *userRepository) Delete(ctx context.Context, id types.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.users[id]
	if !ok {
		return goerr.Wrap(interfaces.ErrUserNotFound, "user not found", goerr.V("id", id))
	}
	delete(r.users, id)

	if err := r.persist(); err != nil {
		r.users[id] = prev
		return err
	}

	return nil
}
