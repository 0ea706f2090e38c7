package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tarunb-0127/minilms/core"
	"github.com/tarunb-0127/minilms/core/course"
	"github.com/tarunb-0127/minilms/core/enrollment"
	"github.com/tarunb-0127/minilms/storage/database"
)

// DatabaseURLEnv names the env var holding the PostgreSQL test database URL.
const DatabaseURLEnv = "TEST_DATABASE_URL"

// PrepareDB opens & migrates the test database and empties its tables.
// Tests are skipped when no test database is configured.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dbURL := os.Getenv(DatabaseURLEnv)
	if dbURL == "" {
		t.Skipf("%s not set", DatabaseURLEnv)
	}
	db, err := database.OpenURL(dbURL)
	if err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db.DB); err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	if _, err = db.Exec(`TRUNCATE feedback, progress, enrollment, module, course RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	return db
}

func CreateModule(t *testing.T, repo course.Repository, courseID int, name, filePath string, position int) course.Module {
	t.Helper()
	mod, err := repo.CreateModule(context.Background(), course.NewModule{
		CourseID: courseID,
		Name:     name,
		FilePath: filePath,
		Position: position,
	})
	if err != nil {
		t.Fatalf("CreateModule(): %v", err)
	}
	return mod
}

// CreateCourse registers courseID and adds one video module per name, in order.
func CreateCourse(t *testing.T, repo course.Repository, courseID int, names ...string) []course.Module {
	t.Helper()
	if _, err := repo.SaveCourse(context.Background(), course.NewCourse{ID: courseID, Name: fmt.Sprintf("Course %d", courseID)}); err != nil {
		t.Fatalf("CreateCourse(): %v", err)
	}
	modules := make([]course.Module, 0, len(names))
	for i, name := range names {
		modules = append(modules, CreateModule(t, repo, courseID, name, fmt.Sprintf("%s.mp4", name), i))
	}
	return modules
}

func Enroll(t *testing.T, repo enrollment.Repository, learnerID, courseID int) enrollment.Enrollment {
	t.Helper()
	e, err := repo.CreateEnrollment(context.Background(), enrollment.Enrollment{
		LearnerID:  learnerID,
		CourseID:   courseID,
		EnrolledAt: time.Now().UTC().Truncate(time.Second),
	})
	if err != nil {
		t.Fatalf("Enroll(): %v", err)
	}
	return e
}

type LogEntry struct {
	Level   string
	Message string
	Args    []interface{}
}

// Logger records log entries for assertions.
type Logger struct {
	mu      sync.Mutex
	Entries []LogEntry
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Message: msg, Args: args})
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("fatal", msg, args) }

// Count returns the number of entries logged at level.
func (l *Logger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int
	for _, e := range l.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}
