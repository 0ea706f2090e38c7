package progress

import "sync"

// Observer turns media player signals of the selected module into progress Updates.
type Observer struct {
	mu       sync.Mutex
	emit     func(Update)
	selected int
	known    map[int]int // moduleID: highest percent emitted or loaded
}

func NewObserver(emit func(Update)) *Observer {
	return &Observer{emit: emit, known: make(map[int]int)}
}

// Select makes moduleID the observed module. knownPercent seeds the monotonicity guard;
// a lower value than what was already seen is ignored.
func (o *Observer) Select(moduleID, knownPercent int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.selected = moduleID
	if knownPercent > o.known[moduleID] {
		o.known[moduleID] = ClampPercent(knownPercent)
	}
}

func (o *Observer) Selected() (int, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.selected, o.selected != 0
}

// Pause handles a pause at position (seconds) of a media lasting duration (seconds).
// An Update is emitted only when the percent watched increased.
func (o *Observer) Pause(position, duration float64) error {
	o.mu.Lock()
	if o.selected == 0 {
		o.mu.Unlock()
		return ErrNoModuleSelected
	}
	pct, err := PercentOf(position, duration)
	if err != nil {
		o.mu.Unlock()
		return err
	}
	if pct <= o.known[o.selected] {
		o.mu.Unlock()
		return nil
	}
	o.known[o.selected] = pct
	upd := Update{ModuleID: o.selected, Percent: pct}
	o.mu.Unlock()

	o.emit(upd)
	return nil
}

// Ended handles the end of the media: the module is forced to 100% completed.
func (o *Observer) Ended() error {
	o.mu.Lock()
	if o.selected == 0 {
		o.mu.Unlock()
		return ErrNoModuleSelected
	}
	o.known[o.selected] = 100
	upd := Update{ModuleID: o.selected, Percent: 100, Completed: true}
	o.mu.Unlock()

	o.emit(upd)
	return nil
}
