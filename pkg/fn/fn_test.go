package fn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func isEven(v int) bool {
	return v%2 == 0
}

func TestArithmetic(t *testing.T) {
	assert.Equal(t, 5, Plus(2, 3))
	assert.Equal(t, -1, Minus(2, 3))
	assert.Equal(t, 5.5, Plus(2.5, 3.0))

	// function values can be handed around without wrappers
	var add func(int, int) int = Plus[int]
	assert.Equal(t, 42, add(40, 2))
}

func TestComparators(t *testing.T) {
	assert.True(t, Less(2, 3))
	assert.False(t, Less(3, 2))
	assert.True(t, LessEqual(3, 3))
	assert.True(t, Greater("b", "a"))
	assert.True(t, GreaterEqual(3.0, 3.0))
	assert.True(t, Equal("x", "x"))
	assert.False(t, Equal(1, 2))
}

func TestPredicateCombinators(t *testing.T) {
	odd := Not(Predicate[int](isEven))
	assert.True(t, odd(3))
	assert.False(t, odd(4))

	positive := func(v int) bool { return v > 0 }
	oddAndPositive := And(odd, positive)
	assert.True(t, oddAndPositive(3))
	assert.False(t, oddAndPositive(-3))
	assert.False(t, oddAndPositive(4))

	evenOrPositive := Or(Predicate[int](isEven), positive)
	assert.True(t, evenOrPositive(-4))
	assert.True(t, evenOrPositive(3))
	assert.False(t, evenOrPositive(-3))
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name       string
		v, lo, hi  int
		wantResult int
	}{
		{"below range", -5, 0, 10, 0},
		{"inside range", 5, 0, 10, 5},
		{"above range", 15, 0, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantResult, Clamp(tt.v, tt.lo, tt.hi))
		})
	}
}
