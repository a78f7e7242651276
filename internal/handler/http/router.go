package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/staffdesk/staffdesk-backend-go/internal/config"
	"github.com/staffdesk/staffdesk-backend-go/internal/handler/http/middleware"
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/jwt"
)

type Handlers struct {
	Auth       AuthHandler
	Webhook    WebhookHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Advance    AdvanceHandler
	Approval   ApprovalHandler
	Payroll    PayrollHandler
	Employee   EmployeeHandler
}

func NewRouter(cfg *config.Config, jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "staffdesk"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", SignatureHeader},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	// Bot-platform ingress, authenticated by body signature instead of a
	// session token.
	r.Post("/webhook/events", h.Webhook.HandleEvent)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/miniapp", h.Auth.LoginWithMiniApp)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/history", h.Attendance.History)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/flagged", h.Attendance.ListFlagged)
					r.Post("/{id}/resolve", h.Attendance.Resolve)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Post("/", h.Leave.Submit)
				r.Get("/my", h.Leave.MyRequests)
				r.Get("/quota", h.Leave.MyQuota)
				r.Post("/{id}/cancel", h.Leave.Cancel)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/pending", h.Leave.ListPending)
					r.Post("/{id}/approve", h.Leave.Approve)
					r.Post("/{id}/reject", h.Leave.Reject)
					r.Put("/quota", h.Leave.AdjustQuota)
				})
			})

			r.Route("/advances", func(r chi.Router) {
				r.Post("/", h.Advance.Submit)
				r.Get("/my", h.Advance.MyRequests)
				r.Get("/balance", h.Advance.MyBalance)
				r.Post("/{id}/cancel", h.Advance.Cancel)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/pending", h.Advance.ListPending)
					r.Post("/{id}/approve", h.Advance.Approve)
					r.Post("/{id}/reject", h.Advance.Reject)
					r.Post("/settle/{employeeID}", h.Advance.Settle)
				})
			})

			r.Route("/approvals", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", h.Approval.ListPending)
				r.Post("/resolve", h.Approval.Resolve)
			})

			r.Get("/payroll/summary", h.Payroll.GetSummary)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/me", h.Employee.Me)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Employee.List)
					r.Post("/", h.Employee.Create)
					r.Get("/{id}", h.Employee.Get)
					r.Put("/{id}", h.Employee.Update)
					r.Delete("/{id}", h.Employee.Deactivate)
				})
			})
		})
	})
	return r
}
