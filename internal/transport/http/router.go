package http

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/school-directory/internal/application/auth"
	"github.com/school-directory/internal/application/image"
	"github.com/school-directory/internal/application/otp"
	"github.com/school-directory/internal/application/school"
	"github.com/school-directory/internal/application/session"
	"github.com/school-directory/internal/config"
	"github.com/school-directory/internal/transport/http/handler"
	appmiddleware "github.com/school-directory/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    UserRepository
	OTPRepo     OTPRepository
	SessionRepo SessionRepository
	SchoolRepo  SchoolRepository
	Mailer      Mailer // nil when no relay is configured
	ImageStore  ObjectStore
	Tokens      TokenProvider
	Now         func() time.Time
}

// NewRouter builds and returns the application router. ctx bounds background
// housekeeping such as rate-limiter cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(appmiddleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: !slices.Contains(cfg.AllowedOrigins, "*"),
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10, applied to the sign-in endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10)

	otpSvc := otp.NewService(otp.ServiceDeps{
		Store:    deps.OTPRepo,
		Mailer:   deps.Mailer,
		Expiry:   cfg.OTPExpiry,
		HashCost: cfg.OTPHashCost,
		Now:      deps.Now,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		Tokens: deps.Tokens,
		Store:  deps.SessionRepo,
		Now:    deps.Now,
	})
	authSvc := auth.NewService(auth.ServiceDeps{
		OTP:      otpSvc,
		Sessions: sessionSvc,
		Users:    deps.UserRepo,
		Now:      deps.Now,
	})
	schoolSvc := school.NewService(school.ServiceDeps{Store: deps.SchoolRepo, Now: deps.Now})
	imageSvc := image.NewService(image.ServiceDeps{
		Store:    deps.ImageStore,
		Folder:   cfg.ImageFolder,
		MaxBytes: cfg.MaxUploadBytes,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, handler.CookieOptions{
		Name:   cfg.CookieName,
		Secure: cfg.CookieSecure,
		MaxAge: cfg.SessionExpiry,
	})
	schoolH := handler.NewSchoolHandler(schoolSvc)
	uploadH := handler.NewUploadHandler(imageSvc, cfg.MaxUploadBytes)
	pageH := handler.NewPageHandler(schoolSvc)

	requireSession := appmiddleware.RequireSession(sessionSvc, cfg.CookieName)
	guard := appmiddleware.NewRouteGuard(sessionSvc, appmiddleware.GuardOptions{
		Protected:    cfg.ProtectedPaths,
		LoginPath:    cfg.LoginPath,
		CookieName:   cfg.CookieName,
		CookieSecure: cfg.CookieSecure,
	})

	r.Get("/health-check/{action}", healthH.Ping)

	// ── Pages (Route Guard) ──────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(guard.Handler)

		r.Get("/", pageH.Home)
		r.Get("/show-schools", pageH.ShowSchools)
		r.Get("/add-school", pageH.AddSchool)
		r.Get("/auth/login", pageH.Login)
	})

	// ── Sign-in API ──────────────────────────────────────────────────────
	r.With(sensitiveRL.Limit).Post("/auth/send-otp", authH.SendOTP)
	r.With(sensitiveRL.Limit).Post("/auth/verify-otp", authH.VerifyOTP)
	r.Get("/auth/me", authH.Me)
	r.Post("/auth/logout", authH.Logout)

	// ── School directory API ─────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {
		r.Get("/schools", schoolH.List)
		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Post("/schools", schoolH.Create)
			r.Post("/upload", uploadH.Upload)
		})
	})

	return r
}
