package controller_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gauravsaxena1997/punit-portfolio/internal/controller"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	engine := gin.New()
	controller.NewHealthController(engine.Group("")).SetupRoutes()

	for _, method := range []string{http.MethodGet, http.MethodHead} {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(method, "/healthz", nil))
		require.Equal(t, http.StatusOK, rec.Code, method)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRobots(t *testing.T) {
	engine := gin.New()
	controller.NewRobotsController(engine.Group(""), "https://example.com/").SetupRoutes()

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.True(t, strings.HasPrefix(body, "User-Agent: *\nAllow: /\n\n"))
	require.Contains(t, body, "User-Agent: GPTBot\nAllow: /\n")
	require.Contains(t, body, "User-Agent: Google-Extended\nAllow: /\n")
	require.True(t, strings.HasSuffix(body, "Sitemap: https://example.com/sitemap.xml\n"))
}

func TestRobotsTxt_AgentCount(t *testing.T) {
	body := controller.RobotsTxt("https://example.com")
	require.Equal(t, 7, strings.Count(body, "User-Agent: "))
	require.Equal(t, 7, strings.Count(body, "Allow: /\n"))
}

func newStaticEngine(t *testing.T, dir string) *gin.Engine {
	t.Helper()
	engine := gin.New()
	controller.NewHealthController(engine.Group("")).SetupRoutes()
	controller.NewStaticController(engine, dir).SetupRoutes()
	return engine
}

func TestStatic_SPAFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>portfolio</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	engine := newStaticEngine(t, dir)

	tests := []struct {
		name     string
		method   string
		path     string
		status   int
		contains string
	}{
		{name: "asset", method: http.MethodGet, path: "/assets/app.js", status: http.StatusOK, contains: "console.log(1)"},
		{name: "client_route", method: http.MethodGet, path: "/projects/dashboard", status: http.StatusOK, contains: "portfolio"},
		{name: "root", method: http.MethodGet, path: "/", status: http.StatusOK, contains: "portfolio"},
		{name: "api_unknown", method: http.MethodGet, path: "/api/unknown", status: http.StatusNotFound, contains: "Not found"},
		{name: "post_unknown", method: http.MethodPost, path: "/projects", status: http.StatusNotFound, contains: "Not found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			require.Equal(t, tc.status, rec.Code)
			require.Contains(t, rec.Body.String(), tc.contains)
		})
	}
}

func TestStatic_NoFrontend(t *testing.T) {
	for name, dir := range map[string]string{
		"unset":         "",
		"missing_index": t.TempDir(),
	} {
		t.Run(name, func(t *testing.T) {
			engine := newStaticEngine(t, dir)

			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/about", nil))
			require.Equal(t, http.StatusNotFound, rec.Code)
			require.JSONEq(t, `{"success":false,"message":"Not found"}`, rec.Body.String())

			health := httptest.NewRecorder()
			engine.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			require.Equal(t, http.StatusOK, health.Code)
		})
	}
}
