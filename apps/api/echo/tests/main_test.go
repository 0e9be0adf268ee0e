package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	. "github.com/mealmatch/mealmatch/apps/api/echo"
	"github.com/mealmatch/mealmatch/core"
	"github.com/mealmatch/mealmatch/core/admin"
	"github.com/mealmatch/mealmatch/core/feedback"
	"github.com/mealmatch/mealmatch/core/profile"
	emailsvc "github.com/mealmatch/mealmatch/services/email"
	inmemdb "github.com/mealmatch/mealmatch/storage/database/inmem"
	testutil "github.com/mealmatch/mealmatch/tests"
)

var (
	conf        *core.Config
	app         Server
	db          *inmemdb.DB
	profileRepo profile.Repository
	fbRepo      feedback.Repository
	adminView   *admin.View

	errNotAuthenticated = httpErr{Error: "not authenticated"}
)

func TestMain(m *testing.M) {
	conf = testutil.NewConfig()

	// set up storage & repos
	db = inmemdb.NewDB()
	profileRepo = inmemdb.NewProfileRepository(db)
	fbRepo = inmemdb.NewFeedbackRepository(db)

	// set up services
	core.ParseEmailTemplates(conf, testutil.Logger{})
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	profileSvc := profile.NewService(profileRepo, mailSvc, conf)
	fbSvc := feedback.NewService(fbRepo)
	logger := testutil.Logger{}
	adminView = admin.NewView(profileSvc, fbSvc, logger)

	validate, translator := testutil.NewValidator(conf)

	// set up server
	app = NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		ProfileSvc:     profileSvc,
		FeedbackSvc:    fbSvc,
		AdminView:      adminView,
		DisableReqLogs: true,
	})

	os.Exit(m.Run())
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// getToken logs in through the API with the shared password.
func getToken(t *testing.T) string {
	t.Helper()
	req, rec := newRequest(http.MethodPost, "/v1/admin/login", marchallObj(t, map[string]string{"password": conf.Admin.Password}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("getToken(): code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var res struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return res.Token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body = %v", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// resetState empties the store and the admin view between tests.
func resetState(t *testing.T) {
	t.Helper()
	db.Reset()
	adminView.ResetGroups()
	if err := adminView.Refresh(context.Background()); err != nil {
		t.Fatalf("resetState(): %v", err)
	}
}
