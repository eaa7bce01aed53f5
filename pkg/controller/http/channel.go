package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/guideops/guideops/pkg/domain/model"
	"github.com/guideops/guideops/pkg/domain/types"
	"github.com/guideops/guideops/pkg/service/stream"
	"github.com/guideops/guideops/pkg/usecase"
)

// updateChannelPrivacyHandler toggles the privacy bit of a channel
func updateChannelPrivacyHandler(channel *usecase.ChannelUseCase) http.HandlerFunc {
	type request struct {
		ChannelID   string `json:"channelId"`
		ChannelType string `json:"channelType"`
		Private     bool   `json:"private"`
		AdminUserID string `json:"adminUserId"`
	}
	type response struct {
		Success bool `json:"success"`
		Private bool `json:"private"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrInvalidArgument, "malformed request body"))
			return
		}

		ch := model.ChannelRef{Type: req.ChannelType, ID: req.ChannelID}
		if err := channel.SetPrivacy(r.Context(), types.UserID(req.AdminUserID), ch, req.Private); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, response{Success: true, Private: req.Private})
	}
}

// assignModeratorHandler grants channel moderator to a user
func assignModeratorHandler(channel *usecase.ChannelUseCase) http.HandlerFunc {
	type request struct {
		ChannelID   string `json:"channelId"`
		ChannelType string `json:"channelType"`
		UserID      string `json:"userId"`
	}
	type response struct {
		Success bool   `json:"success"`
		UserID  string `json:"userId"`
		Role    string `json:"role"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrInvalidArgument, "malformed request body"))
			return
		}

		ch := model.ChannelRef{Type: req.ChannelType, ID: req.ChannelID}
		if err := channel.AssignModerator(r.Context(), ch, types.UserID(req.UserID)); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, response{
			Success: true,
			UserID:  req.UserID,
			Role:    types.RoleChannelModerator.String(),
		})
	}
}

// archiveChannelHandler disables a channel
func archiveChannelHandler(channel *usecase.ChannelUseCase) http.HandlerFunc {
	type request struct {
		ChannelID   string `json:"channelId"`
		ChannelType string `json:"channelType"`
		UserID      string `json:"userId"`
	}
	type response struct {
		Success bool `json:"success"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrInvalidArgument, "malformed request body"))
			return
		}

		ch := model.ChannelRef{Type: req.ChannelType, ID: req.ChannelID}
		if err := channel.Archive(r.Context(), types.UserID(req.UserID), ch); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, response{Success: true})
	}
}

// unarchiveChannelHandler re-enables a disabled channel
func unarchiveChannelHandler(channel *usecase.ChannelUseCase) http.HandlerFunc {
	type request struct {
		ChannelID   string `json:"channelId"`
		ChannelType string `json:"channelType"`
		AdminUserID string `json:"adminUserId"`
	}
	type response struct {
		Success bool `json:"success"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrInvalidArgument, "malformed request body"))
			return
		}

		ch := model.ChannelRef{Type: req.ChannelType, ID: req.ChannelID}
		if err := channel.Unarchive(r.Context(), types.UserID(req.AdminUserID), ch); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, response{Success: true})
	}
}

// archivedChannelsHandler lists disabled channels
func archivedChannelsHandler(channel *usecase.ChannelUseCase) http.HandlerFunc {
	type response struct {
		Channels []*stream.ChannelInfo `json:"channels"`
		Count    int                   `json:"count"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		adminID := types.UserID(r.URL.Query().Get("adminUserId"))
		channelType := r.URL.Query().Get("channelType")

		channels, err := channel.ListArchived(r.Context(), adminID, channelType)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, response{Channels: channels, Count: len(channels)})
	}
}
