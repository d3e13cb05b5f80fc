package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"goagent-server/models"
	"goagent-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildAdminTestApp creates a minimal Iris app with admin routes behind the
// real JWT verifier and role middleware. Only DB-free handlers are
// registered so the suite runs without postgres.
func buildAdminTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Post("/export", AdminCreateExport)
		admin.Get("/export/{id:string}", AdminGetExport)
	}

	app.Build()
	return app
}

func signTestToken(t *testing.T, role string) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, err := signer.Sign(utils.AccessToken{ID: 1, Role: role, Email: "admin@estatego.app"})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(token)
}

func TestAdminRoutesRBAC(t *testing.T) {
	app := buildAdminTestApp()

	// No token
	req := httptest.NewRequest(http.MethodGet, "/api/admin/export/none", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK || resp.Code == http.StatusNotFound {
		t.Fatalf("expected auth failure without token, got %d", resp.Code)
	}

	// Agent role -> 403
	req2 := httptest.NewRequest(http.MethodGet, "/api/admin/export/none", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken(t, models.RoleAgent))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for agent role, got %d", resp2.Code)
	}

	// Admin role passes the middleware; unknown job id means 404, not 403
	req3 := httptest.NewRequest(http.MethodGet, "/api/admin/export/none", nil)
	req3.Header.Set("Authorization", "Bearer "+signTestToken(t, models.RoleAdmin))
	resp3 := httptest.NewRecorder()
	app.ServeHTTP(resp3, req3)
	if resp3.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for admin on unknown job, got %d", resp3.Code)
	}
}

func TestAdminCreateExportValidatesPayload(t *testing.T) {
	app := buildAdminTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/export", strings.NewReader(`{"resource":""}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, models.RoleAdmin))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for missing resource, got %d", resp.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/api/admin/export", strings.NewReader(`{"resource":"videos"}`))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("Authorization", "Bearer "+signTestToken(t, models.RoleAdmin))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unsupported resource, got %d", resp2.Code)
	}
}

func TestRenderSubmissionsCSV(t *testing.T) {
	subs := []models.DriveSubmission{
		{
			AgentName:           "John Doe",
			Status:              models.StatusPaid,
			PropertyName:        "Palm Groove Estate",
			StateLocation:       "Lagos",
			NoOfUnits:           120,
			EstimatedCommission: 54000,
		},
	}
	subs[0].SetVerification(models.VerificationResult{Score: 82, Verdict: models.VerdictAuthentic})

	data, err := renderSubmissionsCSV(subs)
	if err != nil {
		t.Fatalf("renderSubmissionsCSV: %v", err)
	}

	out := string(data)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,submission_date,status") {
		t.Errorf("header = %q", lines[0])
	}
	for _, want := range []string{"Palm Groove Estate", "PAID", "54000", "AUTHENTIC", "82"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("row %q missing %q", lines[1], want)
		}
	}
}
