package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/guideops/guideops/pkg/domain/interfaces"
	"github.com/guideops/guideops/pkg/domain/model"
	"github.com/guideops/guideops/pkg/domain/types"
	"github.com/guideops/guideops/pkg/service/google"
	"github.com/guideops/guideops/pkg/service/stream"
)

// DefaultMasterAdminID is the distinguished account seeded into a fresh
// deployment. It can never be deleted or demoted.
const DefaultMasterAdminID = types.UserID("aurora")

type UseCases struct {
	repo          interfaces.Repository
	chat          stream.Service
	verifier      google.Verifier
	masterAdminID types.UserID
	protected     []model.ChannelRef
	autoJoin      []model.ChannelRef

	Auth    *AuthUseCase
	Admin   *AdminUseCase
	Channel *ChannelUseCase
}

type Option func(*UseCases)

// WithVerifier enables federated Google login
func WithVerifier(v google.Verifier) Option {
	return func(uc *UseCases) {
		uc.verifier = v
	}
}

// WithMasterAdminID overrides the distinguished admin account ID
func WithMasterAdminID(id types.UserID) Option {
	return func(uc *UseCases) {
		uc.masterAdminID = id
	}
}

// WithProtectedChannels overrides the channels exempt from mutation
func WithProtectedChannels(channels []model.ChannelRef) Option {
	return func(uc *UseCases) {
		uc.protected = channels
	}
}

// WithAutoJoinChannels sets the channels new registrations are added to
func WithAutoJoinChannels(channels []model.ChannelRef) Option {
	return func(uc *UseCases) {
		uc.autoJoin = channels
	}
}

func New(repo interfaces.Repository, chat stream.Service, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:          repo,
		chat:          chat,
		masterAdminID: DefaultMasterAdminID,
		protected:     []model.ChannelRef{model.DefaultProtectedChannel},
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Auth = &AuthUseCase{uc: uc}
	uc.Admin = &AdminUseCase{uc: uc}
	uc.Channel = &ChannelUseCase{uc: uc}

	return uc
}

// MasterAdminID returns the distinguished admin account ID
func (uc *UseCases) MasterAdminID() types.UserID {
	return uc.masterAdminID
}

// isProtected reports whether the channel is exempt from mutation
func (uc *UseCases) isProtected(ch model.ChannelRef) bool {
	for _, p := range uc.protected {
		if p.Equal(ch) {
			return true
		}
	}
	return false
}

// requireCapability resolves the caller in the local store and checks the
// capability of its role. The local store is authoritative for role; the
// chat platform's copy is never consulted.
func (uc *UseCases) requireCapability(ctx context.Context, callerID types.UserID, cap types.Capability) (*model.User, error) {
	if callerID == "" {
		return nil, goerr.Wrap(ErrAdminRequired, "caller ID is required")
	}

	caller, err := uc.repo.User().GetByID(ctx, callerID)
	if err != nil {
		// An unknown caller gets the same answer as an unprivileged one
		return nil, goerr.Wrap(ErrAdminRequired, "caller not found", goerr.V("caller", callerID))
	}

	if !caller.Role.Can(cap) {
		return nil, goerr.Wrap(ErrAdminRequired, "capability not granted",
			goerr.V("caller", callerID), goerr.V("role", caller.Role), goerr.V("capability", cap))
	}

	return caller, nil
}
