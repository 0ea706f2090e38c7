package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarunb-0127/minilms/core/course"
)

func TestCoursePercent(t *testing.T) {
	tests := []struct {
		percents []int
		want     int
	}{
		{percents: nil, want: 0},
		{percents: []int{100}, want: 100},
		{percents: []int{0, 0, 0}, want: 0},
		{percents: []int{100, 0, 0}, want: 33},
		{percents: []int{100, 50, 0}, want: 50},
		{percents: []int{100, 100, 99}, want: 99},
		{percents: []int{150, -10}, want: 50},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CoursePercent(tt.percents), "%v", tt.percents)
	}
}

func TestAggregator_Load(t *testing.T) {
	agg := NewAggregator(1)
	shuffled := []course.Module{modulesABC(1)[2], modulesABC(1)[0], modulesABC(1)[1]}
	agg.Load(shuffled, []ModuleProgress{
		{ModuleID: 11, Percent: 100, Completed: true},
		{ModuleID: 12, Percent: 99},
		{ModuleID: 99, Percent: 70}, // not in the course
	})

	snap := agg.Snapshot()
	assert.Equal(t, 1, snap.CourseID)
	assert.Equal(t, 66, snap.Percent)
	assert.False(t, snap.HasConfirmed)
	require.Len(t, snap.Modules, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{snap.Modules[0].Module.Name, snap.Modules[1].Module.Name, snap.Modules[2].Module.Name})
	assert.Equal(t, ModuleProgress{ModuleID: 12, Percent: 99, Completed: true}, snap.Modules[1].Progress)
	assert.Equal(t, ModuleProgress{ModuleID: 13}, snap.Modules[2].Progress)

	_, ok := agg.ModuleProgress(99)
	assert.False(t, ok)
}

func TestAggregator_ApplyUpdate(t *testing.T) {
	agg := NewAggregator(1)
	agg.Load(modulesABC(1), nil)
	assert.Equal(t, 0, agg.Percent())

	require.NoError(t, agg.ApplyUpdate(Update{ModuleID: 11, Percent: 100, Completed: true}))
	assert.Equal(t, 33, agg.Percent())

	require.NoError(t, agg.ApplyUpdate(Update{ModuleID: 12, Percent: 100, Completed: true}))
	assert.Equal(t, 66, agg.Percent())

	require.NoError(t, agg.ApplyUpdate(Update{ModuleID: 13, Percent: 40}))
	assert.Equal(t, 80, agg.Percent())

	// last write wins on the percent, completion sticks
	require.NoError(t, agg.ApplyUpdate(Update{ModuleID: 11, Percent: 20}))
	mp, _ := agg.ModuleProgress(11)
	assert.Equal(t, ModuleProgress{ModuleID: 11, Percent: 20, Completed: true}, mp)
	assert.Equal(t, 53, agg.Percent())

	assert.Equal(t, ErrUnknownModule, agg.ApplyUpdate(Update{ModuleID: 42, Percent: 10}))
	assert.Equal(t, 53, agg.Percent())
}

func TestAggregator_Confirm(t *testing.T) {
	agg := NewAggregator(1)
	agg.Load(modulesABC(1), nil)
	require.NoError(t, agg.ApplyUpdate(Update{ModuleID: 11, Percent: 90}))

	agg.Confirm(10)
	snap := agg.Snapshot()
	assert.Equal(t, 30, snap.Percent)
	assert.Equal(t, 10, snap.Confirmed)
	assert.True(t, snap.HasConfirmed)

	// a reload starts from unconfirmed again
	agg.Load(modulesABC(1), nil)
	assert.False(t, agg.Snapshot().HasConfirmed)
}

func TestAggregator_NoModules(t *testing.T) {
	agg := NewAggregator(1)
	agg.Load(nil, []ModuleProgress{{ModuleID: 1, Percent: 50}})

	assert.Equal(t, 0, agg.Percent())
	assert.Empty(t, agg.Modules())
}
