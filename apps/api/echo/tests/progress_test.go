package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarunb-0127/minilms/core/progress"
	testutil "github.com/tarunb-0127/minilms/tests"
)

func Test_progressApi_update(t *testing.T) {
	e := setup(t)
	modules := testutil.CreateCourse(t, e.modules, 1, "A", "B", "C")
	token := getToken(t, 5)

	body := func(learnerID, moduleID, pct int) []byte {
		return marchallObj(t, progress.Request{LearnerID: learnerID, ModuleID: moduleID, CourseID: 1, ProgressPercentage: pct})
	}

	tests := []httpTest{
		{name: "Auth required", method: http.MethodPost, path: "/api/Progress/update", body: body(5, modules[0].ID, 10), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Other learner", method: http.MethodPost, path: "/api/Progress/update", token: token, body: body(6, modules[0].ID, 10),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "learnerId does not match the authenticated learner"}),
		},
		{
			name: "Invalid percent", method: http.MethodPost, path: "/api/Progress/update", token: token, body: body(5, modules[0].ID, 120),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"progressPercentage": "progressPercentage must be a percentage between 0 and 100"}),
		},
		{
			name: "Missing module", method: http.MethodPost, path: "/api/Progress/update", token: token, body: body(5, 0, 10),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"moduleId": "this field is required"}),
		},
		{
			name: "Unknown module", method: http.MethodPost, path: "/api/Progress/update", token: token, body: body(5, 999, 10),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"moduleId": "module not found"}),
		},
		{name: "Updated", method: http.MethodPost, path: "/api/Progress/update", token: token, body: body(5, modules[0].ID, 40)},
	}
	runHTTPTests(t, e.app, tests)

	// lower values never move the record back
	req, rec := newAuthRequest(http.MethodPost, "/api/Progress/update", token, body(5, modules[0].ID, 20))
	e.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var got progress.Record
	decode(t, rec, &got)
	assert.Equal(t, 40, got.ProgressPercentage)
	assert.False(t, got.IsCompleted)
	assert.Equal(t, 5, got.LearnerID)
}

func Test_progressApi_complete(t *testing.T) {
	e := setup(t)
	modules := testutil.CreateCourse(t, e.modules, 1, "A", "B", "C")
	token := getToken(t, 5)

	req, rec := newAuthRequest(http.MethodPost, "/api/Progress/complete", token,
		marchallObj(t, progress.Request{LearnerID: 5, ModuleID: modules[1].ID, CourseID: 1}))
	e.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got progress.Record
	decode(t, rec, &got)
	assert.Equal(t, 100, got.ProgressPercentage)
	assert.True(t, got.IsCompleted)
}

func Test_progressApi_query(t *testing.T) {
	e := setup(t)
	modules := testutil.CreateCourse(t, e.modules, 1, "A", "B", "C")
	token := getToken(t, 5)

	ctx := context.Background()
	_, err := e.progress.Complete(ctx, progress.Request{LearnerID: 5, ModuleID: modules[0].ID, CourseID: 1})
	require.NoError(t, err)
	_, err = e.progress.Update(ctx, progress.Request{LearnerID: 5, ModuleID: modules[1].ID, CourseID: 1, ProgressPercentage: 50})
	require.NoError(t, err)
	_, err = e.progress.Update(ctx, progress.Request{LearnerID: 6, ModuleID: modules[2].ID, CourseID: 1, ProgressPercentage: 90})
	require.NoError(t, err)

	tests := []httpTest{
		{name: "Auth required", path: "/api/Progress/course/1", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Course progress", path: "/api/Progress/course/1", token: token, learnerID: 5, wantData: marchallObj(t, map[string]int{"progress": 50})},
		{name: "Course progress (other learner)", path: "/api/Progress/course/1", token: getToken(t, 6), wantData: marchallObj(t, map[string]int{"progress": 30})},
		{name: "Course without modules", path: "/api/Progress/course/7", token: token, wantData: marchallObj(t, map[string]int{"progress": 0})},
		{
			name: "Modules progress", path: "/api/Progress/modules/1", token: token,
			wantData: marchallList(t,
				progress.ModuleProgress{ModuleID: modules[0].ID, Percent: 100, Completed: true},
				progress.ModuleProgress{ModuleID: modules[1].ID, Percent: 50},
				progress.ModuleProgress{ModuleID: modules[2].ID},
			),
		},
	}
	runHTTPTests(t, e.app, tests)
}
