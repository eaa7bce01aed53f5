package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/guideops/guideops/pkg/domain/model"
	"github.com/guideops/guideops/pkg/usecase"
)

type userProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type grantResponse struct {
	User         userProfile `json:"user"`
	SessionToken string      `json:"sessionToken"`
	ChatAPIKey   string      `json:"chatApiKey"`
}

func toGrantResponse(grant *model.SessionGrant) grantResponse {
	return grantResponse{
		User: userProfile{
			ID:    grant.UserID.String(),
			Name:  grant.Name,
			Email: grant.Email,
			Role:  grant.Role.String(),
		},
		SessionToken: grant.SessionToken,
		ChatAPIKey:   grant.ChatAPIKey,
	}
}

// loginHandler handles password login by user ID or email
func loginHandler(auth *usecase.AuthUseCase) http.HandlerFunc {
	type request struct {
		UserID   string `json:"userId"`
		Password string `json:"password"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrInvalidArgument, "malformed request body"))
			return
		}

		grant, err := auth.Login(r.Context(), req.UserID, req.Password)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toGrantResponse(grant))
	}
}

// registerHandler handles account creation
func registerHandler(auth *usecase.AuthUseCase) http.HandlerFunc {
	type request struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrInvalidArgument, "malformed request body"))
			return
		}

		grant, err := auth.Register(r.Context(), req.Email, req.Name, req.Password)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toGrantResponse(grant))
	}
}

// googleLoginHandler handles federated login with a Google ID token
func googleLoginHandler(auth *usecase.AuthUseCase) http.HandlerFunc {
	type request struct {
		Credential string `json:"credential"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrInvalidArgument, "malformed request body"))
			return
		}

		grant, err := auth.LoginWithGoogle(r.Context(), req.Credential)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toGrantResponse(grant))
	}
}
