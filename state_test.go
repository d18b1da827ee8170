package ggedit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateUsesDefaults(t *testing.T) {
	s := NewState()
	require.Equal(t, 7, s.Len())
	assert.Equal(t, []float64{100, 100, 100, 0, 0, 0, 0}, s.Values())
	for i, spec := range Defaults() {
		assert.Equal(t, spec, s.At(i).Spec)
	}
}

func TestSetValueReplacesOnlyOneEntry(t *testing.T) {
	s := NewState()
	next, err := s.SetValue(6, 4.5)
	require.NoError(t, err)

	assert.Equal(t, 4.5, next.At(6).Value)
	for i := 0; i < 6; i++ {
		assert.Equal(t, s.At(i), next.At(i))
	}
	// receiver untouched
	assert.Equal(t, 0.0, s.At(6).Value)
}

func TestSetValueClampsToRange(t *testing.T) {
	tests := []struct {
		index int
		in    float64
		want  float64
	}{
		{0, -50, 0},
		{0, 250, 200},
		{3, 101, 100},
		{5, 720, 360},
		{6, 20, 20},
		{6, 0, 0},
		{6, math.Copysign(0, -1), 0},
	}
	for _, tt := range tests {
		s, err := NewState().SetValue(tt.index, tt.in)
		require.NoError(t, err)
		got := s.At(tt.index).Value
		assert.Equal(t, tt.want, got)
		assert.False(t, math.Signbit(got), "value must not keep a negative sign")
	}
}

func TestSetValueRangeInvariant(t *testing.T) {
	s := NewState()
	inputs := []float64{-1e9, -1, 0, 0.5, 99.99, 150, 359.9, 1e9}
	for i := 0; i < s.Len(); i++ {
		for _, v := range inputs {
			var err error
			s, err = s.SetValue(i, v)
			require.NoError(t, err)
			f := s.At(i)
			assert.True(t, f.Spec.Range.Contains(f.Value), "%s=%v outside %v", f.Spec.Kind, f.Value, f.Spec.Range)
		}
	}
}

func TestSetValueErrors(t *testing.T) {
	s := NewState()

	_, err := s.SetValue(-1, 10)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = s.SetValue(7, 10)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		got, err := s.SetValue(0, v)
		require.ErrorIs(t, err, ErrInvalidValue)
		assert.True(t, got.Equal(s), "failed SetValue must not change state")
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	s, err := NewState().SetValue(1, 30)
	require.NoError(t, err)
	s, err = s.SetValue(4, 80)
	require.NoError(t, err)

	assert.True(t, s.Reset().Equal(NewState()))
	assert.False(t, s.Equal(NewState()))
}

func TestFiltersReturnsCopy(t *testing.T) {
	s := NewState()
	fs := s.Filters()
	fs[0].Value = 1
	assert.Equal(t, 100.0, s.At(0).Value)
}
