package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/guideops/guideops/pkg/domain/interfaces"
	"github.com/guideops/guideops/pkg/domain/model"
	"github.com/guideops/guideops/pkg/domain/types"
	"github.com/guideops/guideops/pkg/utils/logging"
)

// MasterAdminSeed describes the distinguished admin account created when
// the store has none.
type MasterAdminSeed struct {
	ID    types.UserID
	Name  string
	Email string
}

func (s MasterAdminSeed) withDefaults() MasterAdminSeed {
	if s.ID == "" {
		s.ID = DefaultMasterAdminID
	}
	if s.Name == "" {
		s.Name = "Aurora"
	}
	if s.Email == "" {
		s.Email = "aurora@guideops.local"
	}
	return s
}

// EnsureMasterAdmin creates the master admin account if it does not exist,
// and restores its admin role if it has drifted. The account starts without
// a password; grant one with SetMasterAdminPassword.
func EnsureMasterAdmin(ctx context.Context, repo interfaces.Repository, seed MasterAdminSeed) (*model.User, error) {
	seed = seed.withDefaults()

	existing, err := repo.User().GetByID(ctx, seed.ID)
	if err == nil {
		if existing.Role == types.RoleAdmin {
			return existing, nil
		}
		existing.Role = types.RoleAdmin
		existing.UpdatedAt = time.Now().UTC()
		if err := repo.User().Put(ctx, existing); err != nil {
			return nil, goerr.Wrap(err, "failed to restore master admin role", goerr.V("id", seed.ID))
		}
		logging.From(ctx).Warn("restored master admin role", "id", seed.ID)
		return existing, nil
	}
	if !errors.Is(err, interfaces.ErrUserNotFound) {
		return nil, goerr.Wrap(err, "failed to look up master admin", goerr.V("id", seed.ID))
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:        seed.ID,
		Name:      seed.Name,
		Email:     model.NormalizeEmail(seed.Email),
		Role:      types.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := repo.User().Put(ctx, user); err != nil {
		return nil, goerr.Wrap(err, "failed to create master admin", goerr.V("id", seed.ID))
	}

	logging.From(ctx).Info("created master admin account", "id", seed.ID)
	return user, nil
}

// SetMasterAdminPassword hashes and stores a password for the master admin.
func SetMasterAdminPassword(ctx context.Context, repo interfaces.Repository, id types.UserID, password string) error {
	if len(password) < model.MinPasswordLength {
		return goerr.Wrap(ErrInvalidArgument, "password is too short",
			goerr.V("min_length", model.MinPasswordLength))
	}

	user, err := repo.User().GetByID(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to look up master admin", goerr.V("id", id))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return goerr.Wrap(err, "failed to hash password")
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	if err := repo.User().Put(ctx, user); err != nil {
		return goerr.Wrap(err, "failed to store master admin password", goerr.V("id", id))
	}

	return nil
}
