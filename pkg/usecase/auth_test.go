package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"golang.org/x/crypto/bcrypt"

	"github.com/guideops/guideops/pkg/domain/model"
	"github.com/guideops/guideops/pkg/domain/types"
	"github.com/guideops/guideops/pkg/service/google"
	"github.com/guideops/guideops/pkg/usecase"
)

func TestRegister(t *testing.T) {
	t.Run("creates user and issues grant", func(t *testing.T) {
		uc, repo, chat := newTestUseCases(t)
		ctx := context.Background()

		grant, err := uc.Auth.Register(ctx, "Robin@Example.com", "Robin Diaz", "secret1")
		gt.NoError(t, err).Required()

		gt.Value(t, grant.Name).Equal("Robin Diaz")
		gt.Value(t, grant.Email).Equal("robin@example.com")
		gt.Value(t, grant.Role).Equal(types.RoleUser)
		gt.Value(t, grant.SessionToken).Equal("token-" + grant.UserID.String())
		gt.Value(t, grant.ChatAPIKey).Equal("test-api-key")

		stored, err := repo.User().GetByID(ctx, grant.UserID)
		gt.NoError(t, err).Required()
		gt.Bool(t, stored.HasCredential()).True()
		gt.NoError(t, bcrypt.CompareHashAndPassword(stored.PasswordHash, []byte("secret1")))

		// The chat directory saw the new identity before the token was minted
		gt.Array(t, chat.upserted).Length(1)
		gt.Value(t, chat.upserted[0].ID).Equal(grant.UserID.String())
		gt.Value(t, chat.upserted[0].Role).Equal("user")
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.Auth.Register(ctx, "casey@example.com", "Another Casey", "secret1")
		gt.Bool(t, errors.Is(err, usecase.ErrEmailTaken)).True()
	})

	t.Run("rejects email already present in chat directory", func(t *testing.T) {
		uc, _, chat := newTestUseCases(t)
		chat.emailExists = true
		ctx := context.Background()

		_, err := uc.Auth.Register(ctx, "fresh@example.com", "Fresh User", "secret1")
		gt.Bool(t, errors.Is(err, usecase.ErrEmailTaken)).True()
	})

	t.Run("directory email check failure does not block registration", func(t *testing.T) {
		uc, _, chat := newTestUseCases(t)
		chat.emailErr = errors.New("directory unavailable")
		ctx := context.Background()

		grant, err := uc.Auth.Register(ctx, "fresh@example.com", "Fresh User", "secret1")
		gt.NoError(t, err).Required()
		gt.Value(t, grant.Email).Equal("fresh@example.com")
	})

	t.Run("rejects short password", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.Auth.Register(ctx, "short@example.com", "Short Pass", "12345")
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidArgument)).True()
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.Auth.Register(ctx, "not-an-email", "Bad Email", "secret1")
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidArgument)).True()
	})

	t.Run("adds new user to auto-join channels", func(t *testing.T) {
		general := model.ChannelRef{Type: "team", ID: "general"}
		uc, _, chat := newTestUseCases(t, usecase.WithAutoJoinChannels([]model.ChannelRef{general}))
		ctx := context.Background()

		grant, err := uc.Auth.Register(ctx, "join@example.com", "Join Er", "secret1")
		gt.NoError(t, err).Required()

		gt.Array(t, chat.memberCalls).Length(1).Required()
		gt.Value(t, chat.memberCalls[0].ch).Equal(general)
		gt.Array(t, chat.memberCalls[0].userIDs).Equal([]string{grant.UserID.String()})
	})

	t.Run("membership failure does not roll back registration", func(t *testing.T) {
		general := model.ChannelRef{Type: "team", ID: "general"}
		uc, repo, chat := newTestUseCases(t, usecase.WithAutoJoinChannels([]model.ChannelRef{general}))
		chat.memberErr = errors.New("channel gone")
		ctx := context.Background()

		grant, err := uc.Auth.Register(ctx, "join@example.com", "Join Er", "secret1")
		gt.NoError(t, err).Required()

		_, err = repo.User().GetByID(ctx, grant.UserID)
		gt.NoError(t, err)
	})
}

func TestLogin(t *testing.T) {
	t.Run("logs in by user ID", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		grant, err := uc.Auth.Register(ctx, "dale@example.com", "Dale Kim", "secret1")
		gt.NoError(t, err).Required()

		logged, err := uc.Auth.Login(ctx, grant.UserID.String(), "secret1")
		gt.NoError(t, err).Required()
		gt.Value(t, logged.UserID).Equal(grant.UserID)
	})

	t.Run("logs in by email", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		grant, err := uc.Auth.Register(ctx, "dale@example.com", "Dale Kim", "secret1")
		gt.NoError(t, err).Required()

		logged, err := uc.Auth.Login(ctx, "dale@example.com", "secret1")
		gt.NoError(t, err).Required()
		gt.Value(t, logged.UserID).Equal(grant.UserID)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.Auth.Register(ctx, "dale@example.com", "Dale Kim", "secret1")
		gt.NoError(t, err).Required()

		_, err = uc.Auth.Login(ctx, "dale@example.com", "wrong-password")
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidCredentials)).True()
	})

	t.Run("rejects unknown identifier", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.Auth.Login(ctx, "nobody", "secret1")
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidCredentials)).True()
	})

	t.Run("rejects account without local credential", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		// The seeded member has no password hash
		_, err := uc.Auth.Login(ctx, "casey_0123456789ab", "anything")
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidCredentials)).True()
	})

	t.Run("surfaces chat failures as upstream errors", func(t *testing.T) {
		uc, _, chat := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.Auth.Register(ctx, "dale@example.com", "Dale Kim", "secret1")
		gt.NoError(t, err).Required()

		chat.tokenErr = errors.New("signing broke")
		_, err = uc.Auth.Login(ctx, "dale@example.com", "secret1")
		gt.Bool(t, errors.Is(err, usecase.ErrUpstream)).True()
	})
}

// mockVerifier is a mock implementation of google.Verifier for testing
type mockVerifier struct {
	claims *google.Claims
	err    error
}

func (m *mockVerifier) Verify(ctx context.Context, credential string) (*google.Claims, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

func TestLoginWithGoogle(t *testing.T) {
	t.Run("creates local record on first login", func(t *testing.T) {
		verifier := &mockVerifier{claims: &google.Claims{
			Subject: "g-123",
			Email:   "Fed@Example.com",
			Name:    "Fed Erated",
		}}
		uc, repo, _ := newTestUseCases(t, usecase.WithVerifier(verifier))
		ctx := context.Background()

		grant, err := uc.Auth.LoginWithGoogle(ctx, "id-token")
		gt.NoError(t, err).Required()
		gt.Value(t, grant.Email).Equal("fed@example.com")
		gt.Value(t, grant.Role).Equal(types.RoleUser)

		stored, err := repo.User().GetByID(ctx, grant.UserID)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.GoogleID).Equal("g-123")
		gt.Bool(t, stored.HasCredential()).False()
	})

	t.Run("reuses existing record on repeat login", func(t *testing.T) {
		verifier := &mockVerifier{claims: &google.Claims{
			Subject: "g-123",
			Email:   "fed@example.com",
			Name:    "Fed Erated",
		}}
		uc, _, _ := newTestUseCases(t, usecase.WithVerifier(verifier))
		ctx := context.Background()

		first, err := uc.Auth.LoginWithGoogle(ctx, "id-token")
		gt.NoError(t, err).Required()

		second, err := uc.Auth.LoginWithGoogle(ctx, "id-token")
		gt.NoError(t, err).Required()
		gt.Value(t, second.UserID).Equal(first.UserID)
	})

	t.Run("keeps local role on repeat login", func(t *testing.T) {
		verifier := &mockVerifier{claims: &google.Claims{
			Subject: "g-123",
			Email:   "fed@example.com",
			Name:    "Fed Erated",
		}}
		uc, _, _ := newTestUseCases(t, usecase.WithVerifier(verifier))
		ctx := context.Background()

		first, err := uc.Auth.LoginWithGoogle(ctx, "id-token")
		gt.NoError(t, err).Required()

		_, err = uc.Admin.SetRole(ctx, usecase.DefaultMasterAdminID, first.UserID, types.RoleAdmin)
		gt.NoError(t, err).Required()

		second, err := uc.Auth.LoginWithGoogle(ctx, "id-token")
		gt.NoError(t, err).Required()
		gt.Value(t, second.Role).Equal(types.RoleAdmin)
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		verifier := &mockVerifier{err: errors.New("bad signature")}
		uc, _, _ := newTestUseCases(t, usecase.WithVerifier(verifier))
		ctx := context.Background()

		_, err := uc.Auth.LoginWithGoogle(ctx, "id-token")
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidCredentials)).True()
	})

	t.Run("fails when verifier is not configured", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.Auth.LoginWithGoogle(ctx, "id-token")
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidArgument)).True()
	})
}
