package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/guideops/guideops/pkg/usecase"
	"github.com/guideops/guideops/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

func New(uc *usecase.UseCases) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	// Authentication
	r.Post("/auth", loginHandler(uc.Auth))
	r.Post("/register", registerHandler(uc.Auth))
	r.Post("/auth/google", googleLoginHandler(uc.Auth))

	// User administration
	r.Route("/admin", func(r chi.Router) {
		r.Get("/users", listUsersHandler(uc.Admin))
		r.Post("/update-user-role", updateUserRoleHandler(uc.Admin))
		r.Delete("/delete-user", deleteUserHandler(uc.Admin))

		r.Post("/archive-channel", archiveChannelHandler(uc.Channel))
		r.Post("/unarchive-channel", unarchiveChannelHandler(uc.Channel))
		r.Get("/archived-channels", archivedChannelsHandler(uc.Channel))
	})

	// Channel administration
	r.Post("/update-channel-privacy", updateChannelPrivacyHandler(uc.Channel))
	r.Post("/assign-channel-moderator", assignModeratorHandler(uc.Channel))

	r.Get("/health", healthHandler)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// decodeBody parses a JSON request body into dst
func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
