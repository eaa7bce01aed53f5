package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/guideops/guideops/pkg/domain/interfaces"
	"github.com/guideops/guideops/pkg/domain/types"
	"github.com/guideops/guideops/pkg/usecase"
)

func TestListUsers(t *testing.T) {
	t.Run("returns every stored user without password material", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		users, err := uc.Admin.ListUsers(ctx, usecase.DefaultMasterAdminID)
		gt.NoError(t, err).Required()
		gt.Array(t, users).Length(2)

		for _, u := range users {
			gt.Bool(t, u.HasCredential).False()
		}
	})

	t.Run("rejects non-admin caller", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.Admin.ListUsers(ctx, "casey_0123456789ab")
		gt.Bool(t, errors.Is(err, usecase.ErrAdminRequired)).True()
	})

	t.Run("rejects unknown caller", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.Admin.ListUsers(ctx, "nobody")
		gt.Bool(t, errors.Is(err, usecase.ErrAdminRequired)).True()
	})
}

func TestSetRole(t *testing.T) {
	t.Run("updates role and mirrors into chat directory", func(t *testing.T) {
		uc, repo, chat := newTestUseCases(t)
		ctx := context.Background()

		updated, err := uc.Admin.SetRole(ctx, usecase.DefaultMasterAdminID, "casey_0123456789ab", types.RoleChannelModerator)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Role).Equal(types.RoleChannelModerator)

		stored, err := repo.User().GetByID(ctx, "casey_0123456789ab")
		gt.NoError(t, err).Required()
		gt.Value(t, stored.Role).Equal(types.RoleChannelModerator)

		gt.Array(t, chat.upserted).Length(1).Required()
		gt.Value(t, chat.upserted[0].Role).Equal("channel_moderator")
	})

	t.Run("mirror failure does not roll back the local change", func(t *testing.T) {
		uc, repo, chat := newTestUseCases(t)
		chat.upsertErr = errors.New("directory down")
		ctx := context.Background()

		_, err := uc.Admin.SetRole(ctx, usecase.DefaultMasterAdminID, "casey_0123456789ab", types.RoleAdmin)
		gt.NoError(t, err).Required()

		stored, err := repo.User().GetByID(ctx, "casey_0123456789ab")
		gt.NoError(t, err).Required()
		gt.Value(t, stored.Role).Equal(types.RoleAdmin)
	})

	t.Run("refuses to demote the master admin", func(t *testing.T) {
		uc, repo, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.Admin.SetRole(ctx, usecase.DefaultMasterAdminID, usecase.DefaultMasterAdminID, types.RoleUser)
		gt.Bool(t, errors.Is(err, usecase.ErrMasterAdminProtected)).True()

		stored, err := repo.User().GetByID(ctx, usecase.DefaultMasterAdminID)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.Role).Equal(types.RoleAdmin)
	})

	t.Run("allows reasserting admin on the master admin", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.Admin.SetRole(ctx, usecase.DefaultMasterAdminID, usecase.DefaultMasterAdminID, types.RoleAdmin)
		gt.NoError(t, err)
	})

	t.Run("rejects invalid role", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.Admin.SetRole(ctx, usecase.DefaultMasterAdminID, "casey_0123456789ab", "superuser")
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidArgument)).True()
	})

	t.Run("rejects unknown target", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.Admin.SetRole(ctx, usecase.DefaultMasterAdminID, "nobody", types.RoleAdmin)
		gt.Bool(t, errors.Is(err, interfaces.ErrUserNotFound)).True()
	})

	t.Run("rejects non-admin caller", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.Admin.SetRole(ctx, "casey_0123456789ab", "casey_0123456789ab", types.RoleAdmin)
		gt.Bool(t, errors.Is(err, usecase.ErrAdminRequired)).True()
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("deletes locally and cascades to chat directory", func(t *testing.T) {
		uc, repo, chat := newTestUseCases(t)
		ctx := context.Background()

		remaining, err := uc.Admin.DeleteUser(ctx, usecase.DefaultMasterAdminID, "casey_0123456789ab")
		gt.NoError(t, err).Required()
		gt.Value(t, remaining).Equal(1)

		_, err = repo.User().GetByID(ctx, "casey_0123456789ab")
		gt.Bool(t, errors.Is(err, interfaces.ErrUserNotFound)).True()

		gt.Array(t, chat.deleted).Equal([]string{"casey_0123456789ab"})
	})

	t.Run("chat cascade failure does not restore the local record", func(t *testing.T) {
		uc, repo, chat := newTestUseCases(t)
		chat.deleteErr = errors.New("directory down")
		ctx := context.Background()

		_, err := uc.Admin.DeleteUser(ctx, usecase.DefaultMasterAdminID, "casey_0123456789ab")
		gt.NoError(t, err).Required()

		_, err = repo.User().GetByID(ctx, "casey_0123456789ab")
		gt.Bool(t, errors.Is(err, interfaces.ErrUserNotFound)).True()
	})

	t.Run("refuses to delete the master admin", func(t *testing.T) {
		uc, repo, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.Admin.DeleteUser(ctx, usecase.DefaultMasterAdminID, usecase.DefaultMasterAdminID)
		gt.Bool(t, errors.Is(err, usecase.ErrMasterAdminProtected)).True()

		_, err = repo.User().GetByID(ctx, usecase.DefaultMasterAdminID)
		gt.NoError(t, err)
	})

	t.Run("rejects unknown target", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.Admin.DeleteUser(ctx, usecase.DefaultMasterAdminID, "nobody")
		gt.Bool(t, errors.Is(err, interfaces.ErrUserNotFound)).True()
	})

	t.Run("rejects non-admin caller", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.Admin.DeleteUser(ctx, "casey_0123456789ab", usecase.DefaultMasterAdminID)
		gt.Bool(t, errors.Is(err, usecase.ErrAdminRequired)).True()
	})
}
