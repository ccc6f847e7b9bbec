package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/school-directory/internal/application/session"
	"github.com/school-directory/internal/logger"
	"go.uber.org/zap"
)

// Decision is the Route Guard's verdict for one navigation.
type Decision struct {
	Allow bool
	// Redirect is the login URL carrying the original path as ?redirect=.
	Redirect string
	// ClearCookie asks the client to discard a token that failed validation.
	ClearCookie bool
}

// RouteGuard gates page navigations on structural session validation.
// Protected paths are matched by segment prefix: "/add-school" covers
// "/add-school" and "/add-school/step-2" but not "/add-schools".
type RouteGuard struct {
	validator    SessionValidator
	protected    []string
	loginPath    string
	cookieName   string
	cookieSecure bool
}

type GuardOptions struct {
	Protected    []string
	LoginPath    string
	CookieName   string
	CookieSecure bool
}

func NewRouteGuard(v SessionValidator, opts GuardOptions) *RouteGuard {
	g := &RouteGuard{
		validator:    v,
		loginPath:    opts.LoginPath,
		cookieName:   opts.CookieName,
		cookieSecure: opts.CookieSecure,
	}
	for _, p := range opts.Protected {
		if p = strings.TrimRight(p, "/"); p != "" {
			g.protected = append(g.protected, p)
		}
	}
	return g
}

// IsProtected reports whether path requires a session.
func (g *RouteGuard) IsProtected(path string) bool {
	for _, p := range g.protected {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Decide classifies a navigation to path carrying token (possibly empty).
func (g *RouteGuard) Decide(r *http.Request, token string) Decision {
	path := r.URL.Path
	if !g.IsProtected(path) {
		return Decision{Allow: true}
	}
	redirect := g.loginPath + "?" + url.Values{"redirect": {path}}.Encode()
	if token == "" {
		return Decision{Redirect: redirect}
	}
	if _, err := g.validator.Validate(r.Context(), token, session.Structural); err != nil {
		logger.Debug("route guard rejected session", zap.String("path", path), zap.Error(err))
		return Decision{Redirect: redirect, ClearCookie: true}
	}
	return Decision{Allow: true}
}

// Handler applies Decide to every request that reaches next.
func (g *RouteGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := g.Decide(r, SessionToken(r, g.cookieName))
		if d.Allow {
			next.ServeHTTP(w, r)
			return
		}
		if d.ClearCookie {
			http.SetCookie(w, ExpiredCookie(g.cookieName, g.cookieSecure))
		}
		http.Redirect(w, r, d.Redirect, http.StatusTemporaryRedirect)
	})
}
