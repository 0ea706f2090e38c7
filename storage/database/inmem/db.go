package inmemdb

import (
	"sync"

	"github.com/tarunb-0127/minilms/core/course"
	"github.com/tarunb-0127/minilms/core/enrollment"
	"github.com/tarunb-0127/minilms/core/feedback"
	"github.com/tarunb-0127/minilms/core/progress"
)

type (
	DB struct {
		course     *courseTable
		module     *moduleTable
		enrollment *enrollmentTable
		progress   *progressTable
		feedback   *feedbackTable
	}

	courseTable struct {
		sync.RWMutex
		table map[int]*course.Course
	}

	moduleTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*course.Module
	}

	enrollmentTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*enrollment.Enrollment
	}

	progressKey struct {
		learnerID int
		moduleID  int
	}

	progressTable struct {
		sync.RWMutex
		table map[progressKey]*progress.Record
	}

	feedbackTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*feedback.Feedback
	}
)

func Open() (*DB, error) {
	db := &DB{
		course:     &courseTable{table: make(map[int]*course.Course)},
		module:     &moduleTable{table: make(map[int]*course.Module)},
		enrollment: &enrollmentTable{table: make(map[int]*enrollment.Enrollment)},
		progress:   &progressTable{table: make(map[progressKey]*progress.Record)},
		feedback:   &feedbackTable{table: make(map[int]*feedback.Feedback)},
	}
	return db, nil
}
