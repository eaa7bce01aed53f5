package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/guideops/guideops/pkg/domain/interfaces"
	"github.com/guideops/guideops/pkg/usecase"
	"github.com/guideops/guideops/pkg/utils/errutil"
	"github.com/guideops/guideops/pkg/utils/logging"
)

// statusOf maps use case sentinels to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrAdminRequired),
		errors.Is(err, usecase.ErrMasterAdminProtected),
		errors.Is(err, usecase.ErrChannelProtected):
		return http.StatusForbidden
	case errors.Is(err, interfaces.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, usecase.ErrStoreFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage picks the body text for an error. Known sentinels speak for
// themselves; anything else stays opaque to the client.
func publicMessage(err error) string {
	for _, sentinel := range []error{
		usecase.ErrInvalidArgument,
		usecase.ErrInvalidCredentials,
		usecase.ErrAdminRequired,
		usecase.ErrMasterAdminProtected,
		usecase.ErrChannelProtected,
		usecase.ErrEmailTaken,
		usecase.ErrStoreFailure,
		usecase.ErrUpstream,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	if errors.Is(err, interfaces.ErrUserNotFound) {
		return interfaces.ErrUserNotFound.Error()
	}
	return "internal server error"
}

// handleError logs the full error (with goerr values and stack) and writes
// the structured {"error": ...} body. No failure crosses this boundary
// unlogged or unwrapped.
func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusOf(err)
	_ = errutil.Handle(ctx, err, "request failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": publicMessage(err)})
}

// writeJSON serializes a success response
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.From(ctx).Error("failed to encode response", "error", err.Error())
	}
}
