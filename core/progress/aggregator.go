package progress

import (
	"sync"

	"github.com/tarunb-0127/minilms/core/course"
)

// Aggregator holds the in-memory progress of the modules of one course
// and the course progress derived from it.
type Aggregator struct {
	mu       sync.RWMutex
	courseID int
	modules  []course.Module
	progress map[int]ModuleProgress

	// two-phase state: percent is the local estimate,
	// confirmed is only ever written from server responses.
	percent      int
	confirmed    int
	hasConfirmed bool
}

func NewAggregator(courseID int) *Aggregator {
	return &Aggregator{
		courseID: courseID,
		progress: make(map[int]ModuleProgress),
	}
}

// Load replaces the known modules and their progress records.
// Records of modules outside the course are dropped.
func (a *Aggregator) Load(modules []course.Module, records []ModuleProgress) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.modules = make([]course.Module, len(modules))
	copy(a.modules, modules)
	course.SortModules(a.modules)

	a.progress = make(map[int]ModuleProgress, len(a.modules))
	for _, m := range a.modules {
		a.progress[m.ID] = ModuleProgress{ModuleID: m.ID}
	}
	for _, rec := range records {
		if _, ok := a.progress[rec.ModuleID]; !ok {
			continue
		}
		pct := ClampPercent(rec.Percent)
		a.progress[rec.ModuleID] = ModuleProgress{
			ModuleID:  rec.ModuleID,
			Percent:   pct,
			Completed: rec.Completed || IsCompleted(pct),
		}
	}
	a.hasConfirmed = false
	a.confirmed = 0
	a.recompute()
}

// ApplyUpdate stores u (last write wins on the percent) and recomputes the course progress.
// The completed flag is never reverted.
func (a *Aggregator) ApplyUpdate(u Update) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	prev, ok := a.progress[u.ModuleID]
	if !ok {
		return ErrUnknownModule
	}
	pct := ClampPercent(u.Percent)
	a.progress[u.ModuleID] = ModuleProgress{
		ModuleID:  u.ModuleID,
		Percent:   pct,
		Completed: prev.Completed || u.Completed || IsCompleted(pct),
	}
	a.recompute()
	return nil
}

// Confirm records the course progress reported by the server.
func (a *Aggregator) Confirm(percent int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.confirmed = ClampPercent(percent)
	a.hasConfirmed = true
}

// Percent returns the local course progress estimate.
func (a *Aggregator) Percent() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.percent
}

func (a *Aggregator) ModuleProgress(moduleID int) (ModuleProgress, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	mp, ok := a.progress[moduleID]
	return mp, ok
}

// Modules returns the course modules in course order.
func (a *Aggregator) Modules() []course.Module {
	a.mu.RLock()
	defer a.mu.RUnlock()
	modules := make([]course.Module, len(a.modules))
	copy(modules, a.modules)
	return modules
}

func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snap := Snapshot{
		CourseID:     a.courseID,
		Percent:      a.percent,
		Confirmed:    a.confirmed,
		HasConfirmed: a.hasConfirmed,
		Modules:      make([]ModuleStatus, 0, len(a.modules)),
	}
	for _, m := range a.modules {
		snap.Modules = append(snap.Modules, ModuleStatus{Module: m, Progress: a.progress[m.ID]})
	}
	return snap
}

// must be called with the lock held
func (a *Aggregator) recompute() {
	percents := make([]int, 0, len(a.modules))
	for _, m := range a.modules {
		percents = append(percents, a.progress[m.ID].Percent)
	}
	a.percent = CoursePercent(percents)
}
