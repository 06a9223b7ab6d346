package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"repairdesk/internal/config"
	"repairdesk/internal/handlers"
	"repairdesk/internal/middleware"
	"repairdesk/internal/policy"
	"repairdesk/internal/qr"
	"repairdesk/internal/repository/postgres"
	"repairdesk/internal/service"
)

func New(log zerolog.Logger, db *pgxpool.Pool, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))
	r.Use(middleware.WithAuth(cfg))

	r.Get("/healthz", handlers.Health())

	// Repos + services + handlers
	userRepo := postgres.NewUserRepo(db)
	ticketRepo := postgres.NewTicketRepo(db)
	commentRepo := postgres.NewCommentRepo(db)

	authSvc := service.NewAuthService(userRepo, cfg.SessionSecret, cfg.AdminLogin)

	ah := handlers.NewAuthHTTP(authSvc, userRepo)
	th := handlers.NewTicketHTTP(ticketRepo, commentRepo, userRepo)
	uh := handlers.NewUserHTTP(userRepo, authSvc, cfg.AdminLogin)
	rh := handlers.NewReportsHTTP(ticketRepo)
	fh := handlers.NewFeedbackHTTP(qr.NewGenerator(cfg.FeedbackURL))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", ah.Register())
		r.Post("/login", ah.Login())
		r.Post("/logout", ah.Logout())
		r.With(middleware.RequireAuth).Get("/me", ah.Me())
	})

	r.Route("/api/tickets", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", th.List())
		r.With(middleware.Require(policy.CreateTicket)).Post("/", th.Create())
		r.Get("/mine", th.Mine())
		r.With(middleware.Require(policy.ViewUnassigned)).Get("/unassigned", th.Unassigned())
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", th.Get())
			r.With(middleware.Require(policy.AssignMaster)).Post("/assign", th.AssignMaster())
			r.With(middleware.Require(policy.SelfAssign)).Post("/claim", th.Claim())
			r.With(middleware.Require(policy.ChangeStatus)).Patch("/status", th.UpdateStatus())
			r.Get("/comments", th.ListComments())
			r.With(middleware.Require(policy.AddComment)).Post("/comments", th.AddComment())
		})
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(middleware.Require(policy.AssignMaster)).Get("/specialists", uh.Specialists())
		r.With(middleware.Require(policy.ManageUsers)).Get("/", uh.List())
		r.With(middleware.Require(policy.ManageUsers)).Post("/", uh.Create())
		r.With(middleware.Require(policy.ManageUsers)).Delete("/{id}", uh.Delete())
	})

	r.With(middleware.RequireAuth, middleware.Require(policy.ViewStatistics)).
		Get("/api/reports/statistics", rh.Statistics())

	r.With(middleware.RequireAuth, middleware.Require(policy.GenerateQR)).
		Get("/api/feedback/qr", fh.QR())

	return r
}
