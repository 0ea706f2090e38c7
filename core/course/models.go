package course

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core"
)

var (
	videoRegex = regexp.MustCompile(`(?i)\.(mp4|webm|ogg)$`)
	urlRegex   = regexp.MustCompile(`(?i)^https?://`)

	// errors
	ErrNotFound       = errors.New("module not found")
	ErrCourseNotFound = errors.New("course not found")
)

// Course is an ordered collection of modules. Courses are owned by the LMS
// catalog; ids are mirrored from it.
type Course struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// NewCourse contains information needed to register a Course.
type NewCourse struct {
	ID          int    `json:"id" validate:"required,min=1"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

// Module is a single content unit (video/file) within a course.
type Module struct {
	ID          int    `json:"id" db:"id"`
	CourseID    int    `json:"courseId" db:"course_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	FilePath    string `json:"filePath" db:"file_path"`
	Position    int    `json:"position" db:"position"`
}

// IsVideo reports whether the module media can be played back (and thus observed).
func (m Module) IsVideo() bool {
	return videoRegex.MatchString(m.FilePath)
}

// FileURL resolves the module media against the uploads base URL.
// Absolute http(s) URLs are returned untouched.
func (m Module) FileURL(uploadsURL string) string {
	if m.FilePath == "" {
		return ""
	}
	if urlRegex.MatchString(m.FilePath) {
		return m.FilePath
	}
	return strings.TrimRight(uploadsURL, "/") + "/" + strings.TrimLeft(m.FilePath, "/")
}

// SortModules orders modules by position; ties keep their fetch order.
func SortModules(modules []Module) {
	sort.SliceStable(modules, func(i, j int) bool { return modules[i].Position < modules[j].Position })
}

// Last returns the last module in the course ordering.
func Last(modules []Module) (Module, bool) {
	if len(modules) == 0 {
		return Module{}, false
	}
	return modules[len(modules)-1], true
}

// NewModule contains information needed to add a Module to a course.
type NewModule struct {
	CourseID    int    `json:"courseId" validate:"required,min=1"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	FilePath    string `json:"filePath" validate:"max=500"`
	Position    int    `json:"position" validate:"min=0"`
}

func (nm *NewModule) Validate(validate *validator.Validate) error {
	nm.Name = core.CleanString(nm.Name)
	nm.Description = core.CleanString(nm.Description)
	nm.FilePath = core.CleanString(nm.FilePath)
	return validate.Struct(nm)
}

type (
	// Repository is the server-side course & module store.
	Repository interface {
		// SaveCourse registers the course nc.ID, or renames it when it exists.
		SaveCourse(ctx context.Context, nc NewCourse) (Course, error)
		GetCourse(ctx context.Context, id int) (Course, error)
		CreateModule(ctx context.Context, nm NewModule) (Module, error)
		GetModule(ctx context.Context, id int) (Module, error)
		// QueryCourseModules returns the modules of a course in course order.
		QueryCourseModules(ctx context.Context, courseID int) ([]Module, error)
	}

	// Store is the remote module source used by learner clients.
	Store interface {
		Course(ctx context.Context, courseID int) (Course, error)
		CourseModules(ctx context.Context, courseID int) ([]Module, error)
	}
)
