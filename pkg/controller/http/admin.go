package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/guideops/guideops/pkg/domain/types"
	"github.com/guideops/guideops/pkg/usecase"
)

// listUsersHandler lists all users for an admin caller
func listUsersHandler(admin *usecase.AdminUseCase) http.HandlerFunc {
	type response struct {
		Users []*usecase.UserSummary `json:"users"`
		Total int                    `json:"total"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		adminID := types.UserID(r.URL.Query().Get("adminUserId"))

		users, err := admin.ListUsers(r.Context(), adminID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, response{Users: users, Total: len(users)})
	}
}

// updateUserRoleHandler changes a user's role
func updateUserRoleHandler(admin *usecase.AdminUseCase) http.HandlerFunc {
	type request struct {
		UserID      string `json:"userId"`
		NewRole     string `json:"newRole"`
		AdminUserID string `json:"adminUserId"`
	}
	type response struct {
		Success bool        `json:"success"`
		User    userProfile `json:"user"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrInvalidArgument, "malformed request body"))
			return
		}
		if req.UserID == "" || req.NewRole == "" {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrInvalidArgument, "userId and newRole are required"))
			return
		}

		user, err := admin.SetRole(r.Context(),
			types.UserID(req.AdminUserID), types.UserID(req.UserID), types.Role(req.NewRole))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, response{
			Success: true,
			User: userProfile{
				ID:    user.ID.String(),
				Name:  user.Name,
				Email: user.Email,
				Role:  user.Role.String(),
			},
		})
	}
}

// deleteUserHandler removes a user
func deleteUserHandler(admin *usecase.AdminUseCase) http.HandlerFunc {
	type request struct {
		UserID      string `json:"userId"`
		AdminUserID string `json:"adminUserId"`
	}
	type response struct {
		Success        bool `json:"success"`
		RemainingUsers int  `json:"remainingUsers"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrInvalidArgument, "malformed request body"))
			return
		}

		remaining, err := admin.DeleteUser(r.Context(),
			types.UserID(req.AdminUserID), types.UserID(req.UserID))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, response{Success: true, RemainingUsers: remaining})
	}
}
