package http

import (
	"log/slog"
	"os"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/handler/http/middleware"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	JWTService jwt.Service,
	authHandler AuthHandler,
	profileHandler ProfileHandler,
	attendanceHandler AttendanceHandler,
	workPlanHandler WorkPlanHandler,
	activityHandler ActivityHandler,
	reminderHandler ReminderHandler,
	reportHandler ReportHandler,
	voiceHandler VoiceHandler,
	corsOrigin string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "fieldcrm"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
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

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", authHandler.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", authHandler.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", authHandler.LoginWithGoogle)
				})
			})
		})

		// Streaming endpoints authenticate with a short-lived token in the
		// query string instead of the Authorization header.
		r.Get("/activity/stream", activityHandler.Stream)
		r.Get("/voice/connect", voiceHandler.Connect)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/profiles", func(r chi.Router) {
				r.Get("/me", profileHandler.Me)
				r.Get("/team", profileHandler.Team)
				r.Get("/{userID}", profileHandler.Get)

				r.Post("/me/hospitals", profileHandler.AddHospital)
				r.Post("/me/customers", profileHandler.AddCustomer)
				r.Put("/me/pipeline", profileHandler.UpsertDeal)
				r.Get("/me/pipeline", profileHandler.Pipeline)
				r.Put("/me/voice-key", profileHandler.SetVoiceAPIKey)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/{userID}/approve", profileHandler.Approve)
					r.Put("/{userID}/role", profileHandler.SetRole)
					r.Put("/{userID}/manager", profileHandler.SetManager)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/checkout", attendanceHandler.Checkout)
				r.Delete("/checkout", attendanceHandler.UndoCheckout)
				r.Put("/day-report", attendanceHandler.SaveDayReport)
				r.Get("/today", attendanceHandler.TodayContext)
				r.Get("/{date}", attendanceHandler.Day)
			})

			r.Route("/work-plans", func(r chi.Router) {
				r.Post("/", workPlanHandler.Save)
				r.Get("/", workPlanHandler.ListOwn)
				r.Post("/submit", workPlanHandler.SubmitBatch)
				r.Put("/status", workPlanHandler.UpdateStatus)
				r.Delete("/{planID}", workPlanHandler.Delete)

				// Reviewers only
				r.Group(func(r chi.Router) {
					r.Use(middleware.ReviewerOnly)
					r.Get("/review", workPlanHandler.ListForReview)
					r.Post("/decide", workPlanHandler.Decide)
				})
			})

			r.Route("/activity", func(r chi.Router) {
				r.Get("/mine", activityHandler.ListMine)
				r.Get("/sse-token", activityHandler.GetSSEToken)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ReviewerOnly)
					r.Get("/", activityHandler.List)
				})
			})

			r.Route("/reminders", func(r chi.Router) {
				r.Post("/", reminderHandler.Create)
				r.Get("/", reminderHandler.List)
				r.Get("/pending", reminderHandler.ListPending)
				r.Post("/{reminderID}/done", reminderHandler.MarkDone)
				r.Delete("/{reminderID}", reminderHandler.Delete)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.ReviewerOnly)
				r.Post("/", reportHandler.Create)
				r.Get("/", reportHandler.List)
				r.Get("/sales-intelligence", reportHandler.SalesIntelligence)
			})
		})
	})
	return r
}
