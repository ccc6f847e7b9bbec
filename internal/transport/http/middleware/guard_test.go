package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/school-directory/internal/application/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuard(v SessionValidator) *RouteGuard {
	return NewRouteGuard(v, GuardOptions{
		Protected:  []string{"/add-school", "/admin/"},
		LoginPath:  "/auth/login",
		CookieName: "session",
	})
}

func TestRouteGuard_IsProtected(t *testing.T) {
	g := newTestGuard(&fakeValidator{})
	assert.True(t, g.IsProtected("/add-school"))
	assert.True(t, g.IsProtected("/add-school/step-2"))
	assert.True(t, g.IsProtected("/admin"))
	assert.False(t, g.IsProtected("/add-schools"))
	assert.False(t, g.IsProtected("/"))
	assert.False(t, g.IsProtected("/show-schools"))
}

func TestRouteGuard_Decide(t *testing.T) {
	const loginURL = "/auth/login?redirect=%2Fadd-school"
	cases := []struct {
		name  string
		path  string
		token string
		want  Decision
	}{
		{"open path without token", "/show-schools", "", Decision{Allow: true}},
		{"open path with junk token", "/", "junk", Decision{Allow: true}},
		{"protected without token", "/add-school", "", Decision{Redirect: loginURL}},
		{"protected with bad token", "/add-school", "junk", Decision{Redirect: loginURL, ClearCookie: true}},
		{"protected with valid token", "/add-school", "good", Decision{Allow: true}},
		{"protected with unrecorded token", "/add-school", "structural-only", Decision{Allow: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := &fakeValidator{}
			g := newTestGuard(v)
			got := g.Decide(httptest.NewRequest(http.MethodGet, tc.path, nil), tc.token)
			assert.Equal(t, tc.want, got)
			for _, m := range v.calls {
				assert.Equal(t, session.Structural, m)
			}
		})
	}
}

func TestRouteGuard_HandlerRedirectsAndClearsCookie(t *testing.T) {
	h := newTestGuard(&fakeValidator{}).Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/add-school", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "junk"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/auth/login?redirect=%2Fadd-school", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestRouteGuard_HandlerRedirectWithoutCookie(t *testing.T) {
	h := newTestGuard(&fakeValidator{}).Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/add-school", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestRouteGuard_HandlerAllows(t *testing.T) {
	h := newTestGuard(&fakeValidator{}).Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/add-school", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "good"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
