package progress

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	updates []Update
}

func (r *recorder) emit(u Update) { r.updates = append(r.updates, u) }

func TestObserver_NoSelection(t *testing.T) {
	rec := &recorder{}
	obs := NewObserver(rec.emit)

	assert.Equal(t, ErrNoModuleSelected, obs.Pause(10, 100))
	assert.Equal(t, ErrNoModuleSelected, obs.Ended())
	assert.Empty(t, rec.updates)
}

func TestObserver_DurationUnknown(t *testing.T) {
	rec := &recorder{}
	obs := NewObserver(rec.emit)
	obs.Select(1, 0)

	for _, dur := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		assert.Equal(t, ErrDurationUnknown, obs.Pause(10, dur))
	}
	assert.Empty(t, rec.updates)
}

func TestObserver_Pause(t *testing.T) {
	tests := []struct {
		name      string
		positions []float64 // over a 200s media
		want      []int
	}{
		{name: "increasing", positions: []float64{20, 40, 100}, want: []int{10, 20, 50}},
		{name: "seek back", positions: []float64{100, 20, 60}, want: []int{50}},
		{name: "same percent", positions: []float64{21, 21.5, 23}, want: []int{10, 11}},
		{name: "zero", positions: []float64{0, 0.1}, want: nil},
		{name: "past the end", positions: []float64{250}, want: []int{100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			obs := NewObserver(rec.emit)
			obs.Select(7, 0)

			for _, pos := range tt.positions {
				assert.NoError(t, obs.Pause(pos, 200))
			}
			var got []int
			for _, u := range rec.updates {
				assert.Equal(t, 7, u.ModuleID)
				assert.False(t, u.Completed)
				got = append(got, u.Percent)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestObserver_SelectSeedsGuard(t *testing.T) {
	rec := &recorder{}
	obs := NewObserver(rec.emit)

	obs.Select(1, 40)
	assert.NoError(t, obs.Pause(30, 100))
	assert.Empty(t, rec.updates)

	assert.NoError(t, obs.Pause(41, 100))
	assert.Equal(t, []Update{{ModuleID: 1, Percent: 41}}, rec.updates)

	// switching back and forth keeps what was seen
	obs.Select(2, 0)
	obs.Select(1, 0)
	assert.NoError(t, obs.Pause(41, 100))
	assert.Len(t, rec.updates, 1)

	id, ok := obs.Selected()
	assert.True(t, ok)
	assert.Equal(t, 1, id)
}

func TestObserver_Ended(t *testing.T) {
	rec := &recorder{}
	obs := NewObserver(rec.emit)
	obs.Select(3, 0)

	assert.NoError(t, obs.Pause(30, 100))
	assert.NoError(t, obs.Ended())
	assert.NoError(t, obs.Ended())

	assert.Equal(t, []Update{
		{ModuleID: 3, Percent: 30},
		{ModuleID: 3, Percent: 100, Completed: true},
		{ModuleID: 3, Percent: 100, Completed: true},
	}, rec.updates)

	// nothing left to gain by pausing
	assert.NoError(t, obs.Pause(100, 100))
	assert.Len(t, rec.updates, 3)
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		position, duration float64
		want               int
		wantErr            error
	}{
		{position: 0, duration: 10, want: 0},
		{position: 3.33, duration: 10, want: 33},
		{position: 9.999, duration: 10, want: 99},
		{position: 10, duration: 10, want: 100},
		{position: 11, duration: 10, want: 100},
		{position: -1, duration: 10, want: 0},
		{position: math.Inf(-1), duration: 10, want: 0},
		{position: 1, duration: 0, wantErr: ErrDurationUnknown},
		{position: math.NaN(), duration: 10, wantErr: ErrDurationUnknown},
	}
	for _, tt := range tests {
		got, err := PercentOf(tt.position, tt.duration)
		assert.Equal(t, tt.wantErr, err)
		assert.Equal(t, tt.want, got)
	}
}
