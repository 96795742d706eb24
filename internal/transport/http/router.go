package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alumnet/internal/audit"
	"alumnet/internal/credential"
	"alumnet/internal/mentorship"
	"alumnet/internal/messaging"
	"alumnet/internal/platform/middleware"
	"alumnet/internal/referral"
	"alumnet/internal/registration"
	"alumnet/internal/relyingparty"
	"alumnet/pkg/platform/httputil"
)

// Directory is the identity directory surface exposed to signed-in users.
type Directory interface {
	ListIdentities(ctx context.Context) ([]credential.PublicIdentity, error)
}

// Handler is the thin HTTP layer. It delegates to domain services without
// embedding business logic so transport concerns remain isolated.
type Handler struct {
	logger       *slog.Logger
	registration *registration.Service
	rp           *relyingparty.Service
	directory    Directory
	messages     *messaging.Service
	referrals    *referral.Service
	mentorships  *mentorship.Service
	auditStore   audit.Store
	validator    middleware.TokenValidator
	adminToken   string
}

func NewHandler(
	logger *slog.Logger,
	ra *registration.Service,
	rp *relyingparty.Service,
	directory Directory,
	messages *messaging.Service,
	referrals *referral.Service,
	mentorships *mentorship.Service,
	auditStore audit.Store,
	validator middleware.TokenValidator,
	adminToken string,
) *Handler {
	return &Handler{
		logger:       logger,
		registration: ra,
		rp:           rp,
		directory:    directory,
		messages:     messages,
		referrals:    referrals,
		mentorships:  mentorships,
		auditStore:   auditStore,
		validator:    validator,
		adminToken:   adminToken,
	}
}

// NewRouter wires all endpoints behind the shared middleware chain.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(h.logger))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", h.handleRegister)
		api.Post("/auth/login", h.handleLogin)
		api.Post("/auth/verify", h.handleVerify)

		api.Group(func(authed chi.Router) {
			authed.Use(middleware.RequireSession(h.validator, h.rp, h.logger))
			authed.Post("/auth/logout", h.handleLogout)
			authed.Get("/users", h.handleListUsers)
			authed.Get("/messages", h.handleInbox)
			authed.Post("/messages", h.handleSendMessage)
			authed.Get("/referrals", h.handleListReferrals)
			authed.Post("/referrals", h.handlePostReferral)
			authed.Get("/mentorships", h.handleListMentorships)
			authed.Post("/mentorships", h.handleRequestMentorship)
			authed.Post("/mentorships/{mentorshipID}/approve", h.handleApproveMentorship)
			authed.Post("/mentorships/{mentorshipID}/reject", h.handleRejectMentorship)
		})

		api.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireAdminToken(h.adminToken, h.logger))
			admin.Get("/logs", h.handleListAuditLog)
		})
	})

	return r
}
