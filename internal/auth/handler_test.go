package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockProvider is a mock implementation of SessionStarter backed by real sessions
type MockProvider struct {
	mock.Mock
	sessions *Sessions
}

func newMockProvider() *MockProvider {
	return &MockProvider{sessions: NewSessions(testSecret, time.Hour, false)}
}

func (m *MockProvider) Session(r *http.Request) (*User, bool) { return m.sessions.Read(r) }

func (m *MockProvider) LoginURL(state string) string {
	return "https://www.facebook.com/dialog/oauth?state=" + state
}

func (m *MockProvider) Complete(ctx context.Context, code string) (*User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockProvider) Logout(w http.ResponseWriter) { m.sessions.Clear(w) }

func (m *MockProvider) StartSession(w http.ResponseWriter, user *User) error {
	return m.sessions.Issue(w, user)
}

func setupAuthRouter(p *MockProvider) *gin.Engine {
	router := gin.New()
	NewHandler(p, false).RegisterRoutes(router)
	return router
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ========================================
// LOGIN FLOW TESTS
// ========================================

func TestLogin_RedirectsWithState(t *testing.T) {
	router := setupAuthRouter(newMockProvider())
	w := httptest.NewRecorder()

	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/facebook/login?next=/post", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	state := cookieNamed(w, stateCookie)
	require.NotNil(t, state)
	assert.True(t, strings.HasSuffix(w.Header().Get("Location"), "state="+state.Value))
	assert.Equal(t, "/post", cookieNamed(w, nextCookie).Value)
}

func TestCallback(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		stateCookie  string
		setup        func(p *MockProvider)
		wantStatus   int
		wantLocation string
		wantSession  bool
	}{
		{
			name:        "success",
			query:       "?state=s1&code=good",
			stateCookie: "s1",
			setup: func(p *MockProvider) {
				p.On("Complete", mock.Anything, "good").Return(&User{ID: "10001", Name: "Lisa W."}, nil)
			},
			wantStatus:   http.StatusFound,
			wantLocation: "/post",
			wantSession:  true,
		},
		{
			name:        "state mismatch",
			query:       "?state=other&code=good",
			stateCookie: "s1",
			setup:       func(*MockProvider) {},
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:       "no state cookie",
			query:      "?state=s1&code=good",
			setup:      func(*MockProvider) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:         "user declined",
			query:        "?state=s1&error=access_denied",
			stateCookie:  "s1",
			setup:        func(*MockProvider) {},
			wantStatus:   http.StatusFound,
			wantLocation: "/",
		},
		{
			name:        "missing code",
			query:       "?state=s1",
			stateCookie: "s1",
			setup:       func(*MockProvider) {},
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "provider failure",
			query:       "?state=s1&code=bad",
			stateCookie: "s1",
			setup: func(p *MockProvider) {
				p.On("Complete", mock.Anything, "bad").Return(nil, errors.New("exchange code: invalid_grant"))
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newMockProvider()
			tt.setup(p)
			router := setupAuthRouter(p)

			req := httptest.NewRequest(http.MethodGet, "/auth/facebook/callback"+tt.query, nil)
			if tt.stateCookie != "" {
				req.AddCookie(&http.Cookie{Name: stateCookie, Value: tt.stateCookie})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			}
			assert.Equal(t, tt.wantSession, cookieNamed(w, sessionCookie) != nil)
			p.AssertExpectations(t)
		})
	}
}

func TestCallback_RedirectsToRememberedPage(t *testing.T) {
	p := newMockProvider()
	p.On("Complete", mock.Anything, "good").Return(&User{ID: "10001", Name: "Lisa W."}, nil)
	router := setupAuthRouter(p)

	req := httptest.NewRequest(http.MethodGet, "/auth/facebook/callback?state=s1&code=good", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "s1"})
	req.AddCookie(&http.Cookie{Name: nextCookie, Value: "//evil.example.com"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "/post", w.Header().Get("Location"))
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/post", safeNext(""))
	assert.Equal(t, "/post", safeNext("https://evil.example.com"))
	assert.Equal(t, "/post", safeNext("//evil.example.com"))
	assert.Equal(t, "/terms", safeNext("/terms"))
}

func TestLogoutAndMe(t *testing.T) {
	p := newMockProvider()
	router := setupAuthRouter(p)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	session := httptest.NewRecorder()
	require.NoError(t, p.StartSession(session, &User{ID: "10001", Name: "Lisa W."}))
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(cookieNamed(session, sessionCookie))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lisa W.")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, -1, cookieNamed(w, sessionCookie).MaxAge)
}

// ========================================
// GATE TESTS
// ========================================

func TestGate(t *testing.T) {
	p := newMockProvider()
	session := httptest.NewRecorder()
	require.NoError(t, p.StartSession(session, &User{ID: "10001", Name: "Lisa W."}))
	validCookie := cookieNamed(session, sessionCookie)

	tests := []struct {
		name         string
		provider     Provider
		method       string
		path         string
		cookie       *http.Cookie
		wantStatus   int
		wantLocation string
	}{
		{"disabled without provider", nil, http.MethodGet, "/post", nil, http.StatusOK, ""},
		{"page without session", p, http.MethodGet, "/post", nil, http.StatusFound, "/auth/facebook/login?next=%2Fpost"},
		{"form post without session", p, http.MethodPost, "/post/details", nil, http.StatusFound, "/auth/facebook/login?next=%2Fpost"},
		{"api without session", p, http.MethodPost, "/api/v1/rides", nil, http.StatusUnauthorized, ""},
		{"with session", p, http.MethodGet, "/post", validCookie, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			handler := func(c *gin.Context) {
				name := ""
				if user, ok := CurrentUser(c); ok {
					name = user.Name
				}
				c.String(http.StatusOK, name)
			}
			router.Use(Gate(tt.provider))
			router.GET("/post", handler)
			router.POST("/post/details", handler)
			router.POST("/api/v1/rides", handler)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			}
			if tt.cookie != nil {
				assert.Equal(t, "Lisa W.", w.Body.String())
			}
		})
	}
}

func TestIdentify(t *testing.T) {
	router := gin.New()
	router.Use(Identify(nil))
	router.GET("/", func(c *gin.Context) {
		_, ok := CurrentUser(c)
		c.String(http.StatusOK, "%v", ok)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "false", w.Body.String())
}
