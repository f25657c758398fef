package handlers

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"quest/src/errs"
	"quest/src/models"
	"quest/src/security"
	"quest/src/templates"
	"quest/src/utils"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		panic(err)
	}
	security.SetKeys(key)

	cfg := utils.DefaultConfig()
	cfg.DisableRateLimits = true
	utils.SetConfig(cfg)
	utils.InitValidator()

	os.Exit(m.Run())
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	tmpl, err := templates.Load()
	if err != nil {
		t.Fatalf("templates.Load: %v", err)
	}

	r := gin.New()
	r.Use(errs.ErrorHandler(zap.NewNop()))
	r.SetHTMLTemplate(tmpl)
	SetupRoutes(r)
	return r
}

func adminToken(t *testing.T, isAdmin bool) string {
	t.Helper()
	token, err := security.NewAccessToken(uuid.New(), "alice", isAdmin)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

type reqOption func(*http.Request)

func withToken(token string) reqOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withAccept(accept string) reqOption {
	return func(r *http.Request) { r.Header.Set("Accept", accept) }
}

func do(r http.Handler, method string, target string, body string, opts ...reqOption) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Accept", "text/html")
	for _, opt := range opts {
		opt(req)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDashboardRoutes_RequireLogin(t *testing.T) {
	r := newTestRouter(t)

	for _, view := range GoalDashboards {
		path := utils.AdminPath(view.Path)
		w := do(r, http.MethodGet, path, "")
		if w.Code != http.StatusFound {
			t.Fatalf("%s: expected 302, got %d", path, w.Code)
		}

		location, err := url.Parse(w.Header().Get("Location"))
		if err != nil {
			t.Fatal(err)
		}
		if location.Path != "/admin/login/" || location.Query().Get("next") != path {
			t.Errorf("%s: unexpected redirect %s", path, location)
		}
	}
}

func TestDashboardRoutes_ForbidNonAdmins(t *testing.T) {
	r := newTestRouter(t)
	token := adminToken(t, false)

	for _, view := range GoalDashboards {
		w := do(r, http.MethodGet, utils.AdminPath(view.Path), "", withToken(token))
		if w.Code != http.StatusForbidden {
			t.Errorf("%s: expected 403, got %d", view.Path, w.Code)
		}
	}
}

func TestAdminIndex_ListsDashboards(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/admin/", "", withToken(adminToken(t, true)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, href := range []string{
		`href="/admin/goal_dashboard_python/"`,
		`href="/admin/goal_dashboard_sql/"`,
		`href="/admin/goal_dashboard_with_avg_completions/"`,
	} {
		if !strings.Contains(body, href) {
			t.Errorf("index is missing %s", href)
		}
	}
	if !strings.Contains(body, "Welcome, alice.") {
		t.Error("index does not greet the signed in admin")
	}
}

func TestLoginPage(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/admin/login/?next=/admin/goal_dashboard_sql/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `name="next" value="/admin/goal_dashboard_sql/"`) {
		t.Error("login form does not carry next")
	}
}

func TestLoginPage_AlreadySignedIn(t *testing.T) {
	r := newTestRouter(t)
	token := adminToken(t, true)

	tests := map[string]string{
		"/admin/goal_dashboard_sql/":     "/admin/goal_dashboard_sql/",
		"//evil.example.com":             "/admin/",
		"/%09/evil.example.com":          "/admin/",
		"/%0A/evil.example.com":          "/admin/",
		"https%3A%2F%2Fevil.example.com": "/admin/",
	}

	for next, want := range tests {
		w := do(r, http.MethodGet, "/admin/login/?next="+next, "", withToken(token))
		if w.Code != http.StatusFound {
			t.Fatalf("next=%s: expected 302, got %d", next, w.Code)
		}
		if got := w.Header().Get("Location"); got != want {
			t.Errorf("next=%s: redirected to %q, want %q", next, got, want)
		}
	}
}

func TestLogin_ValidationErrorRerendersForm(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/admin/login/", "username=alice&next=%2Fadmin%2F")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Password is a required field") {
		t.Errorf("missing validation message in %s", body)
	}
	if !strings.Contains(body, `value="alice"`) {
		t.Error("username was not kept in the form")
	}
}

func TestLogin_ValidationErrorJSON(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/admin/login/", "username=bad%20name&password=x", withAccept("application/json"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Username can contain only letters") {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestLogOut(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/admin/logout/", "")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/login/" {
		t.Fatalf("got %d %q", w.Code, w.Header().Get("Location"))
	}

	cookie := w.Result().Cookies()
	if len(cookie) != 1 || cookie[0].Name != "access_token" || cookie[0].MaxAge >= 0 {
		t.Errorf("cookie was not cleared: %+v", cookie)
	}

	w = do(r, http.MethodPost, "/admin/logout/", "", withAccept("application/json"))
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for API clients, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || w.Body.String() != `{"maintenance":false}` {
		t.Errorf("got %d %s", w.Code, w.Body.String())
	}
}

func dashboardRouter(t *testing.T, goals []models.GoalWithCompletions, stats []models.OtherStat) *gin.Engine {
	t.Helper()
	r := newTestRouter(t)
	r.GET("/render", func(c *gin.Context) {
		renderGoalDashboard(c, "Top goals", goals, stats)
	})
	return r
}

func fixtureGoals() []models.GoalWithCompletions {
	mk := func(name string, slug string, done int) models.GoalWithCompletions {
		return models.GoalWithCompletions{
			Goal:           models.Goal{Id: uuid.New(), Name: name, Slug: slug},
			CompletedTasks: done,
		}
	}
	return models.RankByCompletions([]models.GoalWithCompletions{
		mk("G1", "g1", 3), mk("G2", "g2", 5), mk("G3", "g3", 0),
	}, models.TopGoalsLimit)
}

func TestRenderGoalDashboard_HTML(t *testing.T) {
	r := dashboardRouter(t, fixtureGoals(), models.AverageCompletionsStats(8.0/3.0))

	w := do(r, http.MethodGet, "/render", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	g2, g1, g3 := strings.Index(body, `id="goal-g2"`), strings.Index(body, `id="goal-g1"`), strings.Index(body, `id="goal-g3"`)
	if g2 < 0 || g1 < 0 || g3 < 0 || !(g2 < g1 && g1 < g3) {
		t.Errorf("goals not rendered in rank order: g2=%d g1=%d g3=%d", g2, g1, g3)
	}
	if !strings.Contains(body, "<dt>Average Completed Tasks</dt><dd>2</dd>") {
		t.Errorf("average stat missing from %s", body)
	}
}

func TestRenderGoalDashboard_EmptyHTML(t *testing.T) {
	r := dashboardRouter(t, nil, nil)

	w := do(r, http.MethodGet, "/render", "")
	body := w.Body.String()
	if !strings.Contains(body, "No goals yet.") {
		t.Error("empty state not rendered")
	}
	if strings.Contains(body, `id="other-stats"`) {
		t.Error("other stats rendered without any stats")
	}
}

func TestRenderGoalDashboard_JSON(t *testing.T) {
	r := dashboardRouter(t, fixtureGoals(), models.AverageCompletionsStats(8.0/3.0))

	w := do(r, http.MethodGet, "/render", "", withAccept("application/json"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var dto models.GoalDashboardDTO
	if err := json.Unmarshal(w.Body.Bytes(), &dto); err != nil {
		t.Fatal(err)
	}
	if len(dto.Goals) != 3 || dto.Goals[0].Name != "G2" || dto.Goals[0].CompletedTasks != 5 {
		t.Errorf("unexpected goals %+v", dto.Goals)
	}
	if len(dto.OtherStats) != 1 || dto.OtherStats[0].Stat != 2 {
		t.Errorf("unexpected stats %+v", dto.OtherStats)
	}
}

func TestRenderGoalDashboard_NotAcceptable(t *testing.T) {
	r := dashboardRouter(t, fixtureGoals(), nil)

	w := do(r, http.MethodGet, "/render", "", withAccept("text/plain"))
	if w.Code != http.StatusNotAcceptable {
		t.Errorf("expected 406, got %d", w.Code)
	}
}
