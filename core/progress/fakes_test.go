package progress

import (
	"context"
	"errors"
	"sync"

	"github.com/tarunb-0127/minilms/core/course"
	"github.com/tarunb-0127/minilms/core/enrollment"
	"github.com/tarunb-0127/minilms/core/feedback"
)

var errTransport = errors.New("connection refused")

// fakeStore is an in-memory remote that records what it was sent.
type fakeStore struct {
	mu        sync.Mutex
	updates   []Request
	completes []Request
	order     []string
	fetches   int

	// when set, UpdateProgress signals entered and waits for release
	entered chan struct{}
	release chan struct{}

	records    []ModuleProgress
	course     int
	failUpdate bool
	failFetch  bool
}

func (s *fakeStore) CourseProgress(_ context.Context, _ int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if s.failFetch {
		return 0, errTransport
	}
	return s.course, nil
}

func (s *fakeStore) ModulesProgress(_ context.Context, _ int) ([]ModuleProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records, nil
}

func (s *fakeStore) UpdateProgress(_ context.Context, req Request) (Record, error) {
	if s.release != nil {
		s.entered <- struct{}{}
		<-s.release
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, req)
	s.order = append(s.order, "update")
	if s.failUpdate {
		return Record{}, errTransport
	}
	return Record{LearnerID: req.LearnerID, ModuleID: req.ModuleID, CourseID: req.CourseID, ProgressPercentage: req.ProgressPercentage}, nil
}

func (s *fakeStore) CompleteProgress(_ context.Context, req Request) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completes = append(s.completes, req)
	s.order = append(s.order, "complete")
	if s.failUpdate {
		return Record{}, errTransport
	}
	return Record{LearnerID: req.LearnerID, ModuleID: req.ModuleID, CourseID: req.CourseID, ProgressPercentage: 100, IsCompleted: true}, nil
}

func (s *fakeStore) Updates() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.updates...)
}

func (s *fakeStore) Completes() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.completes...)
}

func (s *fakeStore) Order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

func (s *fakeStore) Fetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

type fakeModules struct {
	modules []course.Module
	err     error
}

func (s fakeModules) Course(_ context.Context, courseID int) (course.Course, error) {
	return course.Course{ID: courseID, Name: "Course"}, nil
}

func (s fakeModules) CourseModules(_ context.Context, _ int) ([]course.Module, error) {
	return s.modules, s.err
}

// fakeEnrollments is enrolled in courses; Enroll and Unenroll are not used by the tracker.
type fakeEnrollments struct {
	courses []int
	err     error
}

func (s fakeEnrollments) MyCourses(_ context.Context) ([]enrollment.EnrolledCourse, error) {
	ecs := make([]enrollment.EnrolledCourse, 0, len(s.courses))
	for i, id := range s.courses {
		ecs = append(ecs, enrollment.EnrolledCourse{Course: course.Course{ID: id}, EnrollmentID: i + 1})
	}
	return ecs, s.err
}

func (s fakeEnrollments) Enroll(_ context.Context, courseID int) (enrollment.Enrollment, error) {
	return enrollment.Enrollment{ID: len(s.courses) + 1, CourseID: courseID}, s.err
}

func (s fakeEnrollments) Unenroll(_ context.Context, _ int) error {
	return s.err
}

type fakeFeedbacks struct {
	mu        sync.Mutex
	feedbacks []feedback.Feedback
	fail      bool
}

func (s *fakeFeedbacks) CourseFeedbacks(_ context.Context, _ int) ([]feedback.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]feedback.Feedback(nil), s.feedbacks...), nil
}

func (s *fakeFeedbacks) SubmitFeedback(_ context.Context, nf feedback.NewFeedback) (feedback.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return feedback.Feedback{}, errTransport
	}
	fb := feedback.Feedback{
		ID:        len(s.feedbacks) + 1,
		LearnerID: nf.LearnerID,
		CourseID:  nf.CourseID,
		Message:   nf.Message,
		Rating:    nf.Rating,
	}
	s.feedbacks = append(s.feedbacks, fb)
	return fb, nil
}

func modulesABC(courseID int) []course.Module {
	return []course.Module{
		{ID: 11, CourseID: courseID, Name: "A", FilePath: "a.mp4", Position: 0},
		{ID: 12, CourseID: courseID, Name: "B", FilePath: "b.mp4", Position: 1},
		{ID: 13, CourseID: courseID, Name: "C", FilePath: "c.mp4", Position: 2},
	}
}
