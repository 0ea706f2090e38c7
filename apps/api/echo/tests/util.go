package tests

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/tarunb-0127/minilms/apps/api/echo"
	"github.com/tarunb-0127/minilms/core"
	"github.com/tarunb-0127/minilms/core/course"
	"github.com/tarunb-0127/minilms/core/enrollment"
	"github.com/tarunb-0127/minilms/core/feedback"
	"github.com/tarunb-0127/minilms/core/progress"
	inmemdb "github.com/tarunb-0127/minilms/storage/database/inmem"
	testutil "github.com/tarunb-0127/minilms/tests"
)

const secretKey = "test-secret"

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errInvalidToken = httpErr{Error: "invalid or expired jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

type env struct {
	app         echoapi.Server
	logger      *testutil.Logger
	modules     course.Repository
	enrollments enrollment.Repository
	progress    *progress.Service
	feedbacks   *feedback.Service
}

// setup returns a server backed by a fresh in-memory database.
func setup(t *testing.T) *env {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}
	e := &env{
		logger:      testutil.NewLogger(),
		modules:     inmemdb.NewModuleRepository(db),
		enrollments: inmemdb.NewEnrollmentRepository(db),
		feedbacks:   feedback.NewService(inmemdb.NewFeedbackRepository(db)),
	}
	e.progress = progress.NewService(inmemdb.NewProgressRepository(db), e.modules)

	conf := &core.Config{TestMode: true}
	conf.Server.SecretKey = secretKey
	conf.Server.DisableReqLogs = true

	e.app = echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        e.logger,
		Modules:       e.modules,
		EnrollmentSvc: enrollment.NewService(e.enrollments, e.modules),
		ProgressSvc:   e.progress,
		FeedbackSvc:   e.feedbacks,
	})
	t.Cleanup(func() { _ = e.app.Close() })
	return e
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name      string
	method    string
	path      string
	body      []byte
	token     string
	learnerID int // LearnerId header, when set
	wantCode  int
	wantData  []byte
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

func newMultipartRequest(t *testing.T, path, token string, fields map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(): %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipart.Close(): %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func getToken(t *testing.T, learnerID int) string {
	claims := echoapi.NewLearnerClaims(learnerID, "Mini LMS", time.Hour)
	token, err := echoapi.GenerateToken(secretKey, claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
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
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
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

func runHTTPTests(t *testing.T, app echoapi.Server, tests []httpTest) {
	for _, tt := range tests {
		if tt.method == "" {
			tt.method = http.MethodGet
		}
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			if tt.learnerID != 0 {
				req.Header.Set("LearnerId", strconv.Itoa(tt.learnerID))
			}
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
