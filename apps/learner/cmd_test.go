package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

type env struct {
	cli         *commandLine
	out         *bytes.Buffer
	modules     []course.Module
	slides      course.Module
	progressSvc *progress.Service
	feedbackSvc *feedback.Service
	enrollments enrollment.Repository
}

func setup(t *testing.T) *env {
	db, err := inmemdb.Open()
	require.NoError(t, err)
	modRepo := inmemdb.NewModuleRepository(db)
	e := &env{
		out:         new(bytes.Buffer),
		progressSvc: progress.NewService(inmemdb.NewProgressRepository(db), modRepo),
		feedbackSvc: feedback.NewService(inmemdb.NewFeedbackRepository(db)),
		enrollments: inmemdb.NewEnrollmentRepository(db),
	}
	e.modules = testutil.CreateCourse(t, modRepo, 1, "Intro", "Basics", "Wrap-up")
	testutil.CreateCourse(t, modRepo, 2)
	e.slides = testutil.CreateModule(t, modRepo, 2, "Slides", "slides.pdf", 0)
	testutil.CreateCourse(t, modRepo, 3, "Advanced")
	testutil.Enroll(t, e.enrollments, 5, 1)
	testutil.Enroll(t, e.enrollments, 5, 2)

	conf := &core.Config{TestMode: true}
	conf.Server.SecretKey = secretKey
	conf.Server.DisableReqLogs = true

	app := echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        testutil.NewLogger(),
		Modules:       modRepo,
		ProgressSvc:   e.progressSvc,
		FeedbackSvc:   e.feedbackSvc,
		EnrollmentSvc: enrollment.NewService(e.enrollments, modRepo),
	})
	srv := httptest.NewServer(app)
	t.Cleanup(func() {
		srv.Close()
		_ = app.Close()
	})

	conf.API.BaseURL = srv.URL
	conf.API.UploadsURL = srv.URL + "/uploads"
	conf.API.Timeout = 5 * time.Second
	conf.Progress.DebounceDelay = time.Hour // flushed on exit

	token, err := echoapi.GenerateToken(secretKey, echoapi.NewLearnerClaims(5, "test", time.Hour))
	require.NoError(t, err)
	getenvFunc = func(key string) string {
		if key == TokenEnv {
			return token
		}
		return ""
	}

	e.cli = newCommandLine(conf, testutil.NewLogger(), e.out)
	return e
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
}

func Test_commandLine_usage(t *testing.T) {
	e := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "status: no course", args: []string{"status"}, wantErr: errHelp},
		{name: "enroll: no course", args: []string{"enroll"}, wantErr: errHelp},
		{name: "unenroll: no course", args: []string{"unenroll", "-course", "0"}, wantErr: errHelp},
		{name: "watch: no module", args: []string{"watch", "-course", "1"}, wantErr: errHelp},
		{name: "watch: no duration", args: []string{"watch", "-course", "1", "-module", "1", "-position", "3"}, wantErr: errHelp},
		{name: "feedback: no rating", args: []string{"feedback", "-course", "1", "-message", "hi"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"learner"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := e.cli.run(args)
			if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_watch(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	run := func(args ...string) error {
		e.out.Reset()
		return e.cli.run(append([]string{"learner"}, args...))
	}

	require.NoError(t, run("watch", "-course", "1", "-module", itoa(e.modules[0].ID), "-position", "30", "-duration", "60"))
	assert.Contains(t, e.out.String(), "Course 1: 16%")

	pct, err := e.progressSvc.CourseProgress(ctx, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, 16, pct)

	for _, m := range e.modules {
		require.NoError(t, run("watch", "-course", "1", "-module", itoa(m.ID), "-ended"))
	}
	assert.Contains(t, e.out.String(), "Course 1: 100%")
	assert.Contains(t, e.out.String(), "Feedback is open for this course.")

	pct, err = e.progressSvc.CourseProgress(ctx, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, pct)

	require.NoError(t, run("status", "-course", "1"))
	assert.Contains(t, e.out.String(), "Course 1\n")
	assert.Contains(t, e.out.String(), "Intro")
	assert.Contains(t, e.out.String(), "/uploads/Intro.mp4")
}

func Test_commandLine_enrollment(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	run := func(args ...string) error {
		e.out.Reset()
		return e.cli.run(append([]string{"learner"}, args...))
	}

	err := run("status", "-course", "3")
	assert.Equal(t, progress.ErrNotEnrolled, err)
	assert.Contains(t, e.out.String(), "Run: enroll -course 3")

	err = run("watch", "-course", "3", "-module", "1", "-ended")
	assert.Equal(t, progress.ErrNotEnrolled, err)

	require.NoError(t, run("enroll", "-course", "3"))
	assert.Contains(t, e.out.String(), "Enrolled in Course 3.")

	require.NoError(t, run("enroll", "-course", "3"))
	assert.Contains(t, e.out.String(), "Already enrolled in Course 3.")

	assert.Error(t, run("enroll", "-course", "99"))
	assert.Contains(t, e.out.String(), "Course 99 does not exist.")

	require.NoError(t, run("courses"))
	assert.Equal(t, "[1] Course 1\n[2] Course 2\n[3] Course 3\n", e.out.String())

	require.NoError(t, run("status", "-course", "3"))
	assert.Contains(t, e.out.String(), "Advanced")

	require.NoError(t, run("unenroll", "-course", "3"))
	assert.Contains(t, e.out.String(), "Left Course 3.")

	err = run("unenroll", "-course", "3")
	assert.Equal(t, progress.ErrNotEnrolled, err)

	stored, err := e.enrollments.QueryLearnerEnrollments(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func Test_commandLine_watchUnknownModule(t *testing.T) {
	e := setup(t)

	err := e.cli.run([]string{"learner", "watch", "-course", "1", "-module", "999", "-ended"})
	assert.Equal(t, progress.ErrUnknownModule, err)
}

func Test_commandLine_watchNotVideo(t *testing.T) {
	e := setup(t)

	require.NoError(t, e.cli.run([]string{"learner", "watch", "-course", "2", "-module", itoa(e.slides.ID), "-ended"}))
	assert.Contains(t, e.out.String(), "Slides is not a video")

	pct, err := e.progressSvc.CourseProgress(context.Background(), 5, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, pct)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func Test_commandLine_feedback(t *testing.T) {
	e := setup(t)
	run := func(args ...string) error {
		e.out.Reset()
		return e.cli.run(append([]string{"learner"}, args...))
	}

	err := run("feedback", "-course", "1", "-message", "Loved it", "-rating", "9")
	assert.True(t, core.IsValidation(err))

	require.NoError(t, run("feedback", "-course", "1", "-message", "Loved it", "-rating", "4"))
	assert.Contains(t, e.out.String(), "Feedback submitted: ★★★★☆")

	require.NoError(t, run("feedback", "-course", "1", "-message", "Again", "-rating", "2"))
	assert.Contains(t, e.out.String(), "Feedback already submitted")

	require.NoError(t, run("status", "-course", "1"))
	assert.Contains(t, e.out.String(), "★★★★☆ learner 5: Loved it")

	fbs, err := e.feedbackSvc.QueryByCourse(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, fbs, 1)
}

func Test_commandLine_promptedToken(t *testing.T) {
	e := setup(t)
	getenvFunc = func(string) string { return "" }
	readPasswordFunc = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }

	err := e.cli.run([]string{"learner", "status", "-course", "1"})
	assert.EqualError(t, err, "reading token: not a terminal")

	readPasswordFunc = func(int) ([]byte, error) { return []byte("garbage"), nil }
	err = e.cli.run([]string{"learner", "status", "-course", "1"})
	assert.Error(t, err)
}
