package progress

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core"
	"github.com/tarunb-0127/minilms/core/session"
)

type SyncerDeps struct {
	CourseID   int
	Session    session.Session
	Store      Store
	Aggregator *Aggregator
	Logger     core.Logger
	Delay      time.Duration
	// Context is used for the sends started by debounce timers. Defaults to context.Background().
	Context context.Context
}

// Syncer sends progress to the remote store: partial updates are debounced
// per module, completions are sent at once. Failures are logged, never retried;
// local state keeps the optimistic value.
type Syncer struct {
	courseID  int
	sess      session.Session
	store     Store
	agg       *Aggregator
	logger    core.Logger
	ctx       context.Context
	debouncer *Debouncer
}

func NewSyncer(deps SyncerDeps) *Syncer {
	s := &Syncer{
		courseID: deps.CourseID,
		sess:     deps.Session,
		store:    deps.Store,
		agg:      deps.Aggregator,
		logger:   deps.Logger,
		ctx:      deps.Context,
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}
	s.debouncer = NewDebouncer(deps.Delay, s.sendPartial)
	return s
}

// Schedule queues a partial update of moduleID, replacing any value still pending for it.
func (s *Syncer) Schedule(moduleID, percent int) {
	s.debouncer.Schedule(moduleID, percent)
}

// Complete sends the completion of moduleID without debouncing.
// A partial update still pending for the module is dropped, and one already
// in flight is waited for, so no partial can land after the completion.
func (s *Syncer) Complete(ctx context.Context, moduleID int) error {
	req := s.request(moduleID, 100)
	req.IsCompleted = true

	var err error
	s.debouncer.Do(moduleID, func() {
		_, err = s.store.CompleteProgress(ctx, req)
	})
	if err != nil {
		err = errors.Wrap(err, "completing module")
		s.logger.Error("progress sync failed", err, s.logData(moduleID, 100), s.sess)
		return err
	}
	s.Reconcile(ctx)
	return nil
}

// Reconcile fetches the authoritative course progress.
func (s *Syncer) Reconcile(ctx context.Context) {
	pct, err := s.store.CourseProgress(ctx, s.courseID)
	if err != nil {
		s.logger.Warn("fetching course progress failed; keeping local estimate",
			errors.Wrap(err, "fetching course progress"), map[string]interface{}{"courseId": s.courseID}, s.sess)
		return
	}
	s.agg.Confirm(pct)
}

// Pending returns the percent still waiting to be sent for moduleID.
func (s *Syncer) Pending(moduleID int) (int, bool) {
	return s.debouncer.Pending(moduleID)
}

// Close sends whatever is pending and waits for in-flight sends, or for ctx to be done.
func (s *Syncer) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.debouncer.Flush()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "flushing pending progress")
	}
}

func (s *Syncer) sendPartial(moduleID, percent int) {
	if _, err := s.store.UpdateProgress(s.ctx, s.request(moduleID, percent)); err != nil {
		s.logger.Error("progress sync failed", errors.Wrap(err, "updating module progress"), s.logData(moduleID, percent), s.sess)
		return
	}
	s.Reconcile(s.ctx)
}

func (s *Syncer) request(moduleID, percent int) Request {
	return Request{
		LearnerID:          s.sess.LearnerID,
		ModuleID:           moduleID,
		CourseID:           s.courseID,
		ProgressPercentage: percent,
		IsCompleted:        IsCompleted(percent),
	}
}

func (s *Syncer) logData(moduleID, percent int) map[string]interface{} {
	return map[string]interface{}{
		"courseId": s.courseID,
		"moduleId": moduleID,
		"percent":  percent,
	}
}
