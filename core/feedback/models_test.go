package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tarunb-0127/minilms/core"
)

func TestFeedback_Stars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", Feedback{Rating: 3}.Stars())
	assert.Equal(t, "☆☆☆☆☆", Feedback{Rating: -1}.Stars())
	assert.Equal(t, "★★★★★", Feedback{Rating: 9}.Stars())
}

func TestNewFeedback_Validate(t *testing.T) {
	validate, translator := core.NewValidator()

	tests := []struct {
		name    string
		nf      NewFeedback
		wantErr bool
	}{
		{name: "valid", nf: NewFeedback{LearnerID: 1, CourseID: 2, Message: "  Good  ", Rating: 4}},
		{name: "no rating", nf: NewFeedback{LearnerID: 1, CourseID: 2, Message: "Good"}, wantErr: true},
		{name: "rating too high", nf: NewFeedback{LearnerID: 1, CourseID: 2, Message: "Good", Rating: 6}, wantErr: true},
		{name: "blank message", nf: NewFeedback{LearnerID: 1, CourseID: 2, Message: "   ", Rating: 3}, wantErr: true},
		{name: "no course", nf: NewFeedback{LearnerID: 1, Message: "Good", Rating: 3}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nf.Validate(validate)
			if !tt.wantErr {
				assert.NoError(t, err)
				assert.Equal(t, "Good", tt.nf.Message)
				return
			}
			err = core.TranslateErrors(err, translator)
			assert.True(t, core.IsValidation(err))
		})
	}
}

func TestHasLearner(t *testing.T) {
	fbs := []Feedback{{LearnerID: 1}, {LearnerID: 3}}
	assert.True(t, HasLearner(fbs, 3))
	assert.False(t, HasLearner(fbs, 2))
	assert.False(t, HasLearner(nil, 1))
}
