package service

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/latepizza/internal/auth"
	"github.com/mmynk/latepizza/internal/metrics"
	"github.com/mmynk/latepizza/internal/middleware"
	"github.com/mmynk/latepizza/pkg/api"
)

// RouterDeps collects what NewRouter wires together.
type RouterDeps struct {
	Ledger      *LedgerService
	Auth        *AuthService
	JWTManager  *auth.JWTManager
	RateLimiter *middleware.RateLimiter // optional
	Metrics     metrics.Recorder
	Gatherer    prometheus.Gatherer // serves /metrics when set
	CORSOrigins []string
}

// NewRouter builds the HTTP handler for both Connect services.
//
// Interceptor order, outermost first:
//
//	Logging → RequireAuth/OptionalAuth → RateLimit
func NewRouter(deps RouterDeps) http.Handler {
	rec := deps.Metrics
	if rec == nil {
		rec = metrics.Nop{}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type",
			"Connect-Protocol-Version", "Connect-Timeout-Ms",
		},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	ledgerOpts := handlerOptions(rec, middleware.RequireAuth(deps.JWTManager), deps.RateLimiter)
	for path, h := range deps.Ledger.handlers(ledgerOpts...) {
		r.Handle(path, h)
	}

	authOpts := handlerOptions(rec, middleware.OptionalAuth(deps.JWTManager), deps.RateLimiter)
	for path, h := range deps.Auth.handlers(authOpts...) {
		r.Handle(path, h)
	}

	return r
}

func handlerOptions(rec metrics.Recorder, authn connect.Interceptor, rl *middleware.RateLimiter) []connect.HandlerOption {
	interceptors := []connect.Interceptor{middleware.LoggingInterceptor(rec), authn}
	if rl != nil {
		interceptors = append(interceptors, rl.Interceptor())
	}
	return []connect.HandlerOption{
		api.WithCodec(),
		connect.WithInterceptors(interceptors...),
	}
}

func (s *LedgerService) handlers(opts ...connect.HandlerOption) map[string]http.Handler {
	return map[string]http.Handler{
		api.CreateGroupProcedure:                  connect.NewUnaryHandler(api.CreateGroupProcedure, s.CreateGroup, opts...),
		api.GetGroupProcedure:                     connect.NewUnaryHandler(api.GetGroupProcedure, s.GetGroup, opts...),
		api.ListGroupsProcedure:                   connect.NewUnaryHandler(api.ListGroupsProcedure, s.ListGroups, opts...),
		api.UpdateGroupProcedure:                  connect.NewUnaryHandler(api.UpdateGroupProcedure, s.UpdateGroup, opts...),
		api.DeleteGroupProcedure:                  connect.NewUnaryHandler(api.DeleteGroupProcedure, s.DeleteGroup, opts...),
		api.SetCurveShiftProcedure:                connect.NewUnaryHandler(api.SetCurveShiftProcedure, s.SetCurveShift, opts...),
		api.SetAllowEveryoneEnterMinutesProcedure: connect.NewUnaryHandler(api.SetAllowEveryoneEnterMinutesProcedure, s.SetAllowEveryoneEnterMinutes, opts...),
		api.AddAdminEmailProcedure:                connect.NewUnaryHandler(api.AddAdminEmailProcedure, s.AddAdminEmail, opts...),
		api.RemoveAdminEmailProcedure:             connect.NewUnaryHandler(api.RemoveAdminEmailProcedure, s.RemoveAdminEmail, opts...),
		api.AddMemberProcedure:                    connect.NewUnaryHandler(api.AddMemberProcedure, s.AddMember, opts...),
		api.RemoveMemberProcedure:                 connect.NewUnaryHandler(api.RemoveMemberProcedure, s.RemoveMember, opts...),
		api.RenameMemberProcedure:                 connect.NewUnaryHandler(api.RenameMemberProcedure, s.RenameMember, opts...),
		api.SetMemberRoleProcedure:                connect.NewUnaryHandler(api.SetMemberRoleProcedure, s.SetMemberRole, opts...),
		api.RecordMeetingProcedure:                connect.NewUnaryHandler(api.RecordMeetingProcedure, s.RecordMeeting, opts...),
		api.CorrectMemberProcedure:                connect.NewUnaryHandler(api.CorrectMemberProcedure, s.CorrectMember, opts...),
		api.ListMeetingsProcedure:                 connect.NewUnaryHandler(api.ListMeetingsProcedure, s.ListMeetings, opts...),
		api.ListCorrectionsProcedure:              connect.NewUnaryHandler(api.ListCorrectionsProcedure, s.ListCorrections, opts...),
		api.GetHistoryProcedure:                   connect.NewUnaryHandler(api.GetHistoryProcedure, s.GetHistory, opts...),
		api.WatchGroupProcedure:                   connect.NewServerStreamHandler(api.WatchGroupProcedure, s.WatchGroup, opts...),
	}
}

func (s *AuthService) handlers(opts ...connect.HandlerOption) map[string]http.Handler {
	return map[string]http.Handler{
		api.RegisterProcedure:           connect.NewUnaryHandler(api.RegisterProcedure, s.Register, opts...),
		api.VerifyEmailProcedure:        connect.NewUnaryHandler(api.VerifyEmailProcedure, s.VerifyEmail, opts...),
		api.ResendVerificationProcedure: connect.NewUnaryHandler(api.ResendVerificationProcedure, s.ResendVerification, opts...),
		api.LoginProcedure:              connect.NewUnaryHandler(api.LoginProcedure, s.Login, opts...),
		api.GetCurrentUserProcedure:     connect.NewUnaryHandler(api.GetCurrentUserProcedure, s.GetCurrentUser, opts...),
	}
}
