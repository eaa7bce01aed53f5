package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/guideops/guideops/pkg/domain/interfaces"
	"github.com/guideops/guideops/pkg/domain/model"
	"github.com/guideops/guideops/pkg/domain/types"
	"github.com/guideops/guideops/pkg/service/stream"
	"github.com/guideops/guideops/pkg/utils/logging"
)

// ChannelUseCase is a thin gateway in front of the chat platform's channel
// administration: privacy toggling, archiving and moderator assignment. It
// owns no channel state; it only validates, authorizes and forwards.
type ChannelUseCase struct {
	uc *UseCases
}

// SetPrivacy toggles a channel between private and public. The protected
// channel is exempt, and the update is field-scoped so the channel name is
// never clobbered.
func (c *ChannelUseCase) SetPrivacy(ctx context.Context, adminID types.UserID, ch model.ChannelRef, private bool) error {
	if _, err := c.uc.requireCapability(ctx, adminID, types.CapManageChannels); err != nil {
		return err
	}
	if err := ch.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidArgument, "invalid channel reference", goerr.V("cause", err.Error()))
	}

	if c.uc.isProtected(ch) {
		return goerr.Wrap(ErrChannelProtected, "privacy of the protected channel cannot change",
			goerr.V("channel_type", ch.Type), goerr.V("channel_id", ch.ID))
	}

	if err := c.uc.chat.SetChannelPrivacy(ctx, ch, private); err != nil {
		return goerr.Wrap(ErrUpstream, "failed to update channel privacy", goerr.V("cause", err.Error()))
	}

	logging.From(ctx).Info("channel privacy updated",
		"admin", adminID, "channel_type", ch.Type, "channel_id", ch.ID, "private", private)

	return nil
}

// AssignModerator grants channel moderator to a locally known user
func (c *ChannelUseCase) AssignModerator(ctx context.Context, ch model.ChannelRef, userID types.UserID) error {
	if err := ch.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidArgument, "invalid channel reference", goerr.V("cause", err.Error()))
	}
	if userID == "" {
		return goerr.Wrap(ErrInvalidArgument, "userId is required")
	}

	if _, err := c.uc.repo.User().GetByID(ctx, userID); err != nil {
		if errors.Is(err, interfaces.ErrUserNotFound) {
			return err
		}
		return goerr.Wrap(err, "failed to load user", goerr.V("id", userID))
	}

	if err := c.uc.chat.AddChannelModerators(ctx, ch, []string{userID.String()}); err != nil {
		return goerr.Wrap(ErrUpstream, "failed to assign channel moderator", goerr.V("cause", err.Error()))
	}

	logging.From(ctx).Info("channel moderator assigned",
		"channel_type", ch.Type, "channel_id", ch.ID, "user", userID)

	return nil
}

// Archive disables a channel on the chat platform. The protected channel
// cannot be archived.
func (c *ChannelUseCase) Archive(ctx context.Context, adminID types.UserID, ch model.ChannelRef) error {
	return c.setDisabled(ctx, adminID, ch, true)
}

// Unarchive re-enables a disabled channel
func (c *ChannelUseCase) Unarchive(ctx context.Context, adminID types.UserID, ch model.ChannelRef) error {
	return c.setDisabled(ctx, adminID, ch, false)
}

func (c *ChannelUseCase) setDisabled(ctx context.Context, adminID types.UserID, ch model.ChannelRef, disabled bool) error {
	if _, err := c.uc.requireCapability(ctx, adminID, types.CapManageChannels); err != nil {
		return err
	}
	if err := ch.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidArgument, "invalid channel reference", goerr.V("cause", err.Error()))
	}

	if disabled && c.uc.isProtected(ch) {
		return goerr.Wrap(ErrChannelProtected, "the protected channel cannot be archived",
			goerr.V("channel_type", ch.Type), goerr.V("channel_id", ch.ID))
	}

	if err := c.uc.chat.SetChannelDisabled(ctx, ch, disabled); err != nil {
		return goerr.Wrap(ErrUpstream, "failed to update channel disabled flag", goerr.V("cause", err.Error()))
	}

	logging.From(ctx).Info("channel disabled flag updated",
		"admin", adminID, "channel_type", ch.Type, "channel_id", ch.ID, "disabled", disabled)

	return nil
}

// ListArchived returns the disabled channels of the given type (default
// "team"), most recently updated first
func (c *ChannelUseCase) ListArchived(ctx context.Context, adminID types.UserID, channelType string) ([]*stream.ChannelInfo, error) {
	if _, err := c.uc.requireCapability(ctx, adminID, types.CapManageChannels); err != nil {
		return nil, err
	}
	if channelType == "" {
		channelType = model.DefaultProtectedChannel.Type
	}

	channels, err := c.uc.chat.ListDisabledChannels(ctx, channelType)
	if err != nil {
		return nil, goerr.Wrap(ErrUpstream, "failed to list archived channels", goerr.V("cause", err.Error()))
	}

	return channels, nil
}
