package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentValidation(t *testing.T) {
	validate, translator := NewValidator()

	type payload struct {
		Percent int     `json:"progressPercentage" validate:"percent"`
		Ratio   float64 `json:"ratio" validate:"percent"`
	}
	tests := []struct {
		p       payload
		wantErr bool
	}{
		{p: payload{Percent: 0, Ratio: 0}},
		{p: payload{Percent: 100, Ratio: 99.5}},
		{p: payload{Percent: 101}, wantErr: true},
		{p: payload{Percent: -1}, wantErr: true},
		{p: payload{Ratio: 100.1}, wantErr: true},
	}
	for _, tt := range tests {
		err := validate.Struct(tt.p)
		if !tt.wantErr {
			assert.NoError(t, err)
			continue
		}
		err = TranslateErrors(err, translator)
		require.True(t, IsValidation(err))
		vErr := errors.Cause(err).(*ValidationError)
		require.Len(t, vErr.Fields, 1)
		assert.Contains(t, vErr.Fields[0].Error, "must be a percentage between 0 and 100")
	}
}

func TestTranslateErrors_Required(t *testing.T) {
	validate, translator := NewValidator()

	type payload struct {
		Name string `json:"name" validate:"required"`
	}
	err := TranslateErrors(validate.Struct(payload{}), translator)
	require.True(t, IsValidation(err))

	vErr := errors.Cause(err).(*ValidationError)
	assert.Equal(t, []FieldError{{Field: "name", Error: "this field is required"}}, vErr.Fields)

	// non validator errors pass through
	plain := errors.New("boom")
	assert.Equal(t, plain, TranslateErrors(plain, translator))
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Foo", CleanString("  Foo \n"))
	assert.Equal(t, "foo", CleanString(" FOO ", true))
}

func TestIsShutdown(t *testing.T) {
	err := errors.Wrap(NewShutdownError("stop"), "serving")
	assert.True(t, IsShutdown(err))
	assert.False(t, IsShutdown(errors.New("stop")))
}
