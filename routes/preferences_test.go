package routes

import (
	"context"
	"encoding/json"
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

type memoryConfigStore struct {
	lists map[string][]string
}

func (s *memoryConfigStore) key(userID uint, kind string) string {
	return kind
}

func (s *memoryConfigStore) GetList(ctx context.Context, userID uint, kind string) ([]string, error) {
	if v, ok := s.lists[s.key(userID, kind)]; ok {
		return v, nil
	}
	return []string{"Resident App"}, nil
}

func (s *memoryConfigStore) SetList(ctx context.Context, userID uint, kind string, values []string) error {
	s.lists[s.key(userID, kind)] = values
	return nil
}

func buildPreferencesTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	Preferences = &memoryConfigStore{lists: map[string][]string{}}

	app := iris.New()
	verifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	verifierMiddleware := verifier.Verify(func() interface{} { return new(utils.AccessToken) })

	preferences := app.Party("/api/preferences", verifierMiddleware)
	{
		preferences.Get("/features", GetFeaturePreferences)
		preferences.Put("/features", SetFeaturePreferences)
	}

	app.Build()
	return app
}

func TestPreferenceListRoundTrip(t *testing.T) {
	app := buildPreferencesTestApp()
	token := signTestToken(t, models.RoleAgent)

	// Defaults before any write
	req := httptest.NewRequest(http.MethodGet, "/api/preferences/features", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("get defaults: %d", resp.Code)
	}

	// Save a custom list
	body := `{"values":["Utility Billing","Visitor Control"]}`
	req2 := httptest.NewRequest(http.MethodPut, "/api/preferences/features", strings.NewReader(body))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("Authorization", "Bearer "+token)
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusOK {
		t.Fatalf("put: %d, body %s", resp2.Code, resp2.Body.String())
	}

	// Read it back
	req3 := httptest.NewRequest(http.MethodGet, "/api/preferences/features", nil)
	req3.Header.Set("Authorization", "Bearer "+token)
	resp3 := httptest.NewRecorder()
	app.ServeHTTP(resp3, req3)

	var out struct {
		Data []string `json:"data"`
	}
	if err := json.Unmarshal(resp3.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Data) != 2 || out.Data[0] != "Utility Billing" {
		t.Errorf("data = %v", out.Data)
	}
}
