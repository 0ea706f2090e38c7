package progress

import (
	"context"
	"sync"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/tarunb-0127/minilms/core"
	"github.com/tarunb-0127/minilms/core/course"
	"github.com/tarunb-0127/minilms/core/enrollment"
	"github.com/tarunb-0127/minilms/core/feedback"
	"github.com/tarunb-0127/minilms/core/session"
)

var (
	ErrFeedbackUnavailable = errors.New("feedback is not available for the selected module")
	ErrNotEnrolled         = errors.New("learner is not enrolled in this course")
)

type TrackerDeps struct {
	CourseID      int
	Session       session.Session
	Modules       course.Store
	Enrollments   enrollment.Store
	Progress      Store
	Feedbacks     feedback.Store
	Validate      *validator.Validate
	Translator    ut.Translator
	Logger        core.Logger
	DebounceDelay time.Duration
	// Context bounds the debounced sends; see SyncerDeps.
	Context context.Context
}

// Tracker follows a learner through one course: playback events become module progress,
// progress is synced to the server and the feedback form unlocks on the last module.
type Tracker struct {
	courseID    int
	sess        session.Session
	modules     course.Store
	enrollments enrollment.Store
	progress    Store
	feedbacks   feedback.Store
	validate    *validator.Validate
	translator  ut.Translator
	logger      core.Logger

	observer *Observer
	agg      *Aggregator
	syncer   *Syncer
	gate     *Gate

	mu       sync.RWMutex
	course   course.Course
	enrolled enrollment.EnrolledCourse
	received []feedback.Feedback
}

func NewTracker(deps TrackerDeps) *Tracker {
	t := &Tracker{
		courseID:    deps.CourseID,
		sess:        deps.Session,
		modules:     deps.Modules,
		enrollments: deps.Enrollments,
		progress:    deps.Progress,
		feedbacks:   deps.Feedbacks,
		validate:    deps.Validate,
		translator:  deps.Translator,
		logger:      deps.Logger,
		agg:         NewAggregator(deps.CourseID),
		gate:        NewGate(),
	}
	if t.validate == nil {
		t.validate, t.translator = core.NewValidator()
	}
	t.observer = NewObserver(t.onUpdate)
	t.syncer = NewSyncer(SyncerDeps{
		CourseID:   deps.CourseID,
		Session:    deps.Session,
		Store:      deps.Progress,
		Aggregator: t.agg,
		Logger:     deps.Logger,
		Delay:      deps.DebounceDelay,
		Context:    deps.Context,
	})
	return t
}

// Load fetches the course and the learner's enrollments. Modules are only
// visible to enrolled learners: ErrNotEnrolled is returned otherwise. Then the
// course modules, the learner's progress and the course feedbacks are fetched
// and the first module is selected.
func (t *Tracker) Load(ctx context.Context) error {
	var (
		c         course.Course
		mine      []enrollment.EnrolledCourse
		modules   []course.Module
		records   []ModuleProgress
		feedbacks []feedback.Feedback
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c, err = t.modules.Course(gctx, t.courseID)
		return errors.Wrap(err, "fetching course")
	})
	g.Go(func() error {
		var err error
		mine, err = t.enrollments.MyCourses(gctx)
		return errors.Wrap(err, "fetching enrollments")
	})
	if err := g.Wait(); err != nil {
		t.logger.Error("loading course failed", err, map[string]interface{}{"courseId": t.courseID}, t.sess)
		return err
	}
	enrolled, ok := enrollment.Find(mine, t.courseID)

	t.mu.Lock()
	t.course = c
	t.enrolled = enrolled
	t.mu.Unlock()

	if !ok {
		return ErrNotEnrolled
	}

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		modules, err = t.modules.CourseModules(gctx, t.courseID)
		return errors.Wrap(err, "fetching modules")
	})
	g.Go(func() error {
		var err error
		records, err = t.progress.ModulesProgress(gctx, t.courseID)
		return errors.Wrap(err, "fetching modules progress")
	})
	g.Go(func() error {
		var err error
		feedbacks, err = t.feedbacks.CourseFeedbacks(gctx, t.courseID)
		return errors.Wrap(err, "fetching feedbacks")
	})
	if err := g.Wait(); err != nil {
		t.logger.Error("loading course failed", err, map[string]interface{}{"courseId": t.courseID}, t.sess)
		return err
	}

	t.agg.Load(modules, records)
	ordered := t.agg.Modules()
	if last, ok := course.Last(ordered); ok {
		t.gate.SetLastModule(last.ID)
	}
	t.gate.Observe(feedbacks, t.sess.LearnerID)

	t.mu.Lock()
	t.received = feedbacks
	t.mu.Unlock()

	if len(ordered) > 0 {
		return t.Select(ordered[0].ID)
	}
	return nil
}

// Select makes moduleID the module being watched. Pending syncs of other modules keep running.
func (t *Tracker) Select(moduleID int) error {
	mp, ok := t.agg.ModuleProgress(moduleID)
	if !ok {
		return ErrUnknownModule
	}
	t.observer.Select(moduleID, mp.Percent)
	return nil
}

// Pause handles a pause of the selected module's media.
// Errors are informational; the learner keeps watching.
func (t *Tracker) Pause(position, duration float64) error {
	err := t.observer.Pause(position, duration)
	if err != nil {
		t.logger.Warn("ignoring pause event", err, map[string]interface{}{
			"courseId": t.courseID,
			"position": position,
			"duration": duration,
		}, t.sess)
	}
	return err
}

// Ended handles the end of the selected module's media: the module is completed
// locally and on the server without debouncing.
//
// A failed server sync is already logged when returned, and the local state keeps
// the completion, so callers may ignore that error. Only ErrNoModuleSelected and
// local state errors mean the completion was not recorded.
func (t *Tracker) Ended(ctx context.Context) error {
	moduleID, ok := t.observer.Selected()
	if !ok {
		return ErrNoModuleSelected
	}
	if err := t.observer.Ended(); err != nil {
		return err
	}
	return t.syncer.Complete(ctx, moduleID)
}

func (t *Tracker) onUpdate(u Update) {
	if err := t.agg.ApplyUpdate(u); err != nil {
		t.logger.Warn("dropping progress update", err, map[string]interface{}{"moduleId": u.ModuleID}, t.sess)
		return
	}
	if !u.Completed {
		t.syncer.Schedule(u.ModuleID, u.Percent)
	}
}

// FeedbackOpen reports whether the feedback form should be shown.
func (t *Tracker) FeedbackOpen() bool {
	selected, _ := t.observer.Selected()
	return t.gate.Open(selected)
}

// SubmitFeedback posts the learner's feedback. Unlike progress sync, failures are returned.
func (t *Tracker) SubmitFeedback(ctx context.Context, message string, rating int) (feedback.Feedback, error) {
	nf := feedback.NewFeedback{
		LearnerID: t.sess.LearnerID,
		CourseID:  t.courseID,
		Message:   message,
		Rating:    rating,
	}
	if err := nf.Validate(t.validate); err != nil {
		return feedback.Feedback{}, core.TranslateErrors(err, t.translator)
	}
	if !t.FeedbackOpen() {
		return feedback.Feedback{}, ErrFeedbackUnavailable
	}

	fb, err := t.feedbacks.SubmitFeedback(ctx, nf)
	if err != nil {
		err = errors.Wrap(err, "submitting feedback")
		t.logger.Error("feedback submission failed", err, map[string]interface{}{"courseId": t.courseID}, t.sess)
		return feedback.Feedback{}, err
	}
	t.gate.MarkSubmitted()

	t.mu.Lock()
	t.received = append(t.received, fb)
	t.mu.Unlock()
	return fb, nil
}

// Feedbacks returns the course feedbacks, including the one submitted in this session.
func (t *Tracker) Feedbacks() []feedback.Feedback {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fbs := make([]feedback.Feedback, len(t.received))
	copy(fbs, t.received)
	return fbs
}

func (t *Tracker) Course() course.Course {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.course
}

// Enrollment returns the learner's enrollment in the course, if Load found one.
func (t *Tracker) Enrollment() (enrollment.EnrolledCourse, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enrolled, t.enrolled.EnrollmentID != 0
}

func (t *Tracker) Modules() []course.Module {
	return t.agg.Modules()
}

func (t *Tracker) Snapshot() Snapshot {
	snap := t.agg.Snapshot()
	snap.SelectedModuleID, _ = t.observer.Selected()
	snap.HasFeedback = t.gate.HasFeedback()
	snap.FeedbackOpen = t.gate.Open(snap.SelectedModuleID)
	return snap
}

// Close sends pending progress before the tracker is dropped.
func (t *Tracker) Close(ctx context.Context) error {
	return t.syncer.Close(ctx)
}
