package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/guideops/guideops/pkg/domain/interfaces"
	"github.com/guideops/guideops/pkg/domain/model"
	"github.com/guideops/guideops/pkg/domain/types"
	"github.com/guideops/guideops/pkg/service/stream"
	"github.com/guideops/guideops/pkg/utils/logging"
)

// AdminUseCase implements the privileged user-management operations. Every
// operation resolves the caller in the local store and requires the
// manage-users capability.
type AdminUseCase struct {
	uc *UseCases
}

// UserSummary is the projection exposed by ListUsers. Password hashes never
// leave the store.
type UserSummary struct {
	ID            types.UserID `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	Role          types.Role   `json:"role"`
	HasCredential bool         `json:"hasCredential"`
}

// ListUsers returns a summary of every stored user
func (a *AdminUseCase) ListUsers(ctx context.Context, adminID types.UserID) ([]*UserSummary, error) {
	if _, err := a.uc.requireCapability(ctx, adminID, types.CapManageUsers); err != nil {
		return nil, err
	}

	users, err := a.uc.repo.User().GetAll(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list users")
	}

	summaries := make([]*UserSummary, len(users))
	for i, user := range users {
		summaries[i] = &UserSummary{
			ID:            user.ID,
			Name:          user.Name,
			Email:         user.Email,
			Role:          user.Role,
			HasCredential: user.HasCredential(),
		}
	}

	return summaries, nil
}

// SetRole updates a user's role locally and mirrors it into the chat
// directory. The local update is authoritative; a failed mirror is logged
// and healed by the next login or directory sync cycle.
func (a *AdminUseCase) SetRole(ctx context.Context, adminID, targetID types.UserID, newRole types.Role) (*model.User, error) {
	if _, err := a.uc.requireCapability(ctx, adminID, types.CapManageUsers); err != nil {
		return nil, err
	}
	if !newRole.IsValid() {
		return nil, goerr.Wrap(ErrInvalidArgument, "invalid role", goerr.V("role", newRole))
	}

	users := a.uc.repo.User()

	target, err := users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, interfaces.ErrUserNotFound) {
			return nil, err
		}
		return nil, goerr.Wrap(err, "failed to load target user", goerr.V("id", targetID))
	}

	if target.ID == a.uc.masterAdminID && newRole != types.RoleAdmin {
		return nil, goerr.Wrap(ErrMasterAdminProtected, "master admin cannot be demoted", goerr.V("id", targetID))
	}

	target.Role = newRole
	target.UpdatedAt = time.Now().UTC()
	if err := users.Put(ctx, target); err != nil {
		return nil, goerr.Wrap(ErrStoreFailure, "failed to persist role change", goerr.V("cause", err.Error()))
	}

	identity := &stream.Identity{
		ID:       target.ID.String(),
		Name:     target.Name,
		Email:    target.Email,
		Role:     target.Role.String(),
		ImageURL: target.AvatarURL(),
		GoogleID: target.GoogleID,
	}
	if err := a.uc.chat.UpsertUser(ctx, identity); err != nil {
		logging.From(ctx).Warn("failed to mirror role change into chat directory",
			"id", target.ID, "role", newRole, "error", err.Error())
	}

	logging.From(ctx).Info("user role updated",
		"admin", adminID, "target", targetID, "role", newRole)

	return target, nil
}

// DeleteUser removes a user locally and instructs the chat platform to drop
// the identity and mark its messages deleted. Returns the remaining user
// count. The master admin can never be deleted.
func (a *AdminUseCase) DeleteUser(ctx context.Context, adminID, targetID types.UserID) (int, error) {
	if _, err := a.uc.requireCapability(ctx, adminID, types.CapManageUsers); err != nil {
		return 0, err
	}
	if targetID == "" {
		return 0, goerr.Wrap(ErrInvalidArgument, "userId is required")
	}

	if targetID == a.uc.masterAdminID {
		return 0, goerr.Wrap(ErrMasterAdminProtected, "master admin cannot be deleted", goerr.V("id", targetID))
	}

	users := a.uc.repo.User()

	if err := users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, interfaces.ErrUserNotFound) {
			return 0, err
		}
		return 0, goerr.Wrap(ErrStoreFailure, "failed to delete user", goerr.V("cause", err.Error()))
	}

	// Cascade to the chat directory; the local removal stands either way
	if err := a.uc.chat.DeleteUser(ctx, targetID.String(), true); err != nil {
		logging.From(ctx).Warn("failed to delete user from chat directory",
			"id", targetID, "error", err.Error())
	}

	remaining, err := users.GetAll(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count remaining users")
	}

	logging.From(ctx).Info("user deleted",
		"admin", adminID, "target", targetID, "remaining", len(remaining))

	return len(remaining), nil
}
