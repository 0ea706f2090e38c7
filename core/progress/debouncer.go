package progress

import (
	"sync"
	"time"
)

// DefaultDebounceDelay is the quiet period before a module's progress is sent.
const DefaultDebounceDelay = time.Second

type pending struct {
	value int
	timer *time.Timer
}

// keyLock serializes the sends of one key. gen is bumped by Do so that a
// value dequeued before it is dropped instead of landing after it.
type keyLock struct {
	sync.Mutex
	gen int
}

// Debouncer coalesces rapid values per key: only the last value scheduled
// within the delay is handed to fire. It owns every pending timer.
// Calls to fire for the same key never overlap, nor overlap with Do.
type Debouncer struct {
	delay time.Duration
	fire  func(key, value int)

	mu      sync.Mutex
	pending map[int]*pending
	sending map[int]*keyLock
	wg      sync.WaitGroup
}

func NewDebouncer(delay time.Duration, fire func(key, value int)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &Debouncer{
		delay:   delay,
		fire:    fire,
		pending: make(map[int]*pending),
		sending: make(map[int]*keyLock),
	}
}

// Schedule records value as the latest for key and restarts the key's timer.
func (d *Debouncer) Schedule(key, value int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.pending[key]; ok {
		prev.timer.Stop()
	}
	p := &pending{value: value}
	p.timer = time.AfterFunc(d.delay, func() { d.onTimer(key, p) })
	d.pending[key] = p
}

// Cancel drops the pending value of key, if any.
func (d *Debouncer) Cancel(key int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked(key)
}

func (d *Debouncer) cancelLocked(key int) bool {
	p, ok := d.pending[key]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(d.pending, key)
	return true
}

// Do drops the pending value of key and runs fn once no send of key is in flight.
// Values of key dequeued before Do but not yet sent are dropped.
func (d *Debouncer) Do(key int, fn func()) {
	d.mu.Lock()
	d.cancelLocked(key)
	lock := d.keyLockLocked(key)
	lock.gen++
	d.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	fn()
}

// Pending returns the value waiting to be sent for key.
func (d *Debouncer) Pending(key int) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pending[key]
	if !ok {
		return 0, false
	}
	return p.value, true
}

// Flush fires every pending value now and waits until all fires, including
// the ones started by timers, have returned.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	due := make(map[int]*pending, len(d.pending))
	for key, p := range d.pending {
		p.timer.Stop()
		due[key] = p
	}
	d.pending = make(map[int]*pending)
	gens := make(map[int]int, len(due))
	for key := range due {
		gens[key] = d.keyLockLocked(key).gen
	}
	d.wg.Add(len(due))
	d.mu.Unlock()

	for key, p := range due {
		d.send(key, p.value, gens[key])
	}
	d.wg.Wait()
}

func (d *Debouncer) onTimer(key int, p *pending) {
	d.mu.Lock()
	if d.pending[key] != p { // superseded, cancelled or flushed
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	gen := d.keyLockLocked(key).gen
	d.wg.Add(1)
	d.mu.Unlock()

	d.send(key, p.value, gen)
}

func (d *Debouncer) keyLockLocked(key int) *keyLock {
	lock, ok := d.sending[key]
	if !ok {
		lock = new(keyLock)
		d.sending[key] = lock
	}
	return lock
}

func (d *Debouncer) send(key, value, gen int) {
	defer d.wg.Done()

	d.mu.Lock()
	lock := d.keyLockLocked(key)
	d.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	d.mu.Lock()
	stale := lock.gen != gen
	d.mu.Unlock()
	if stale {
		return
	}
	d.fire(key, value)
}
