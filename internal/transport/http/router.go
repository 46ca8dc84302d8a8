package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	adminapp "github.com/accommodation-form-api/internal/application/admin"
	"github.com/accommodation-form-api/internal/application/auth"
	formapp "github.com/accommodation-form-api/internal/application/form"
	libapp "github.com/accommodation-form-api/internal/application/library"
	"github.com/accommodation-form-api/internal/config"
	"github.com/accommodation-form-api/internal/infrastructure/localfs"
	"github.com/accommodation-form-api/internal/transport/http/handler"
	appmiddleware "github.com/accommodation-form-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", appmiddleware.SessionTokenHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(appmiddleware.ClientCertificate(cfg.ClientCertHeader, cfg.IsDevelopment()))

	var adminMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		adminMw = appmiddleware.AdminAuth(deps.JWTProvider)
	} else {
		// Without signing keys nothing can verify, so admin routes reject.
		adminMw = func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error":"admin surface disabled"}`, http.StatusServiceUnavailable)
			})
		}
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		Challenges:    deps.Challenges,
		Verifications: deps.Verifications,
		Sessions:      deps.Sessions,
		Mailer:        deps.Mailer,
		OTPLength:     cfg.OTPLength,
	})
	formSvc := formapp.NewService(formapp.ServiceDeps{
		Sessions:      deps.Sessions,
		Submissions:   deps.SubmissionRepo,
		Renderer:      deps.Renderer,
		Storage:       deps.S3Store,
		LocalFallback: localFallback(deps.LocalStore),
		Mailer:        deps.Mailer,
		Notifier:      deps.Notifier,
		CompanyEmail:  cfg.CompanyEmail,
		Development:   cfg.IsDevelopment(),
	})
	librarySvc := libapp.NewService(deps.LibraryRepo)
	var adminSvc adminapp.Service
	if deps.JWTProvider != nil {
		adminSvc = adminapp.NewService(adminapp.ServiceDeps{
			Signer:       deps.JWTProvider,
			Username:     cfg.AdminUsername,
			PasswordHash: cfg.AdminPasswordHash,
		})
	}

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	certH := handler.NewCertificateHandler(cfg.ClientCertHeader, cfg.IsDevelopment())
	formH := handler.NewFormHandler(formSvc, cfg.IsDevelopment())
	libraryH := handler.NewLibraryHandler(librarySvc)
	adminH := handler.NewAdminHandler(adminSvc, formSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no session) ───────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/auth/verify-certificate", certH.Verify)
		r.With(sensitiveRL.Limit).Get("/auth/math-captcha", authH.GetCaptcha)
		r.With(sensitiveRL.Limit).Post("/auth/request-email-verification", authH.RequestVerification)
		r.With(sensitiveRL.Limit).Post("/auth/verify-mfa-token", authH.VerifyToken)
		r.Get("/libraries/active", libraryH.ListActive)

		// ── Session-token routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.SessionToken)

			r.Get("/auth/session/status", authH.SessionStatus)
			r.Post("/auth/logout", authH.Logout)

			r.Post("/form/initialize", formH.Initialize)
			r.Post("/form/submit", formH.Submit)
			r.Get("/form/submissions/{id}/status", formH.Status)
			r.Get("/form/submissions/{id}/download", formH.Download)
		})

		// ── Admin routes ─────────────────────────────────────────────────────
		r.With(sensitiveRL.Limit).Post("/admin/login", adminH.Login)
		r.Group(func(r chi.Router) {
			r.Use(adminMw)

			r.Get("/admin/submissions", adminH.ListSubmissions)
			r.Delete("/admin/submissions/{id}", adminH.DeleteSubmission)
			r.Get("/admin/libraries", libraryH.ListAll)
			r.Post("/admin/libraries", libraryH.Create)
			r.Get("/admin/libraries/{id}", libraryH.Get)
			r.Put("/admin/libraries/{id}", libraryH.Update)
			r.Delete("/admin/libraries/{id}", libraryH.Delete)
		})
	})

	return r
}

// localFallback keeps a nil *localfs.Store out of the LocalStore interface;
// a typed nil would defeat the service's fallback guards.
func localFallback(ls *localfs.Store) formapp.LocalStore {
	if ls == nil {
		return nil
	}
	return ls
}
