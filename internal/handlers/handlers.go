// Package handlers exposes the HTTP API: the public registration endpoints
// and the token-protected admin dashboard endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rafidainsoft/mahrajan/internal/domain"
	"github.com/rafidainsoft/mahrajan/internal/ratelimit"
	"github.com/rafidainsoft/mahrajan/internal/service"
	"github.com/rafidainsoft/mahrajan/pkg/logger"
)

type Handlers struct {
	registrations *service.RegistrationService
	invitations   *service.InvitationService
	verification  *service.VerificationService
	broadcast     *service.BroadcastService
	otp           *service.OTPService
	adminAuth     *service.AdminAuthService
	settings      *service.SettingsService
	jwtSecret     string
}

func New(
	registrations *service.RegistrationService,
	invitations *service.InvitationService,
	verification *service.VerificationService,
	broadcast *service.BroadcastService,
	otp *service.OTPService,
	adminAuth *service.AdminAuthService,
	settings *service.SettingsService,
	jwtSecret string,
) *Handlers {
	return &Handlers{
		registrations: registrations,
		invitations:   invitations,
		verification:  verification,
		broadcast:     broadcast,
		otp:           otp,
		adminAuth:     adminAuth,
		settings:      settings,
		jwtSecret:     jwtSecret,
	}
}

// Limiters holds the per-endpoint rate limiters for the abuse-prone routes.
type Limiters struct {
	Register ratelimit.Limiter
	OTP      ratelimit.Limiter
	Bulk     ratelimit.Limiter
}

func (h *Handlers) Routes(lim Limiters) chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.With(ratelimit.Middleware(lim.Register)).Post("/register", h.Register)
		r.With(ratelimit.Middleware(lim.OTP)).Post("/send-otp", h.SendOTP)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.Login)

			r.Group(func(r chi.Router) {
				r.Use(h.RequireAdmin)

				r.Get("/registrations", h.ListRegistrations)
				r.Patch("/registrations", h.UpdateRegistration)
				r.Post("/send-invitation", h.SendInvitation)
				r.Post("/verify-qr", h.VerifyQR)
				r.With(ratelimit.Middleware(lim.Bulk)).Post("/send-bulk-message", h.SendBulkMessage)
				r.Get("/settings", h.GetSettings)
				r.Patch("/settings", h.UpdateSettings)
			})
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors onto the API's error responses.
// Validation failures carry their own user-facing Arabic message; everything
// unexpected is logged and hidden behind the generic fallback.
func (h *Handlers) respondServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg, fallbackMsg string) {
	switch {
	case domain.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case err == domain.ErrNotFound:
		writeError(w, http.StatusNotFound, notFoundMsg)
	default:
		logger.ErrorContext(r.Context(), "Request failed", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, fallbackMsg)
	}
}
