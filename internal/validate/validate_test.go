package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequired(t *testing.T) {
	assert.True(t, Required("a", "b"))
	assert.False(t, Required("a", ""))
	assert.False(t, Required("   "))
	assert.True(t, Required())
}

func TestMinLen(t *testing.T) {
	assert.True(t, MinLen("secret1", 6))
	assert.True(t, MinLen("abcdef", 6))
	assert.False(t, MinLen("abcde", 6))
	assert.False(t, MinLen("  abc  ", 6))
}

func TestEmail(t *testing.T) {
	assert.True(t, Email("a@b.com"))
	// Deliberately weak: anything containing "@" passes.
	assert.True(t, Email("@"))
	assert.False(t, Email("not-an-email"))
}

func TestNumberOr(t *testing.T) {
	assert.Equal(t, 12.5, NumberOr("12.5", 0))
	assert.Equal(t, 0.0, NumberOr("", 0))
	assert.Equal(t, 1.0, NumberOr("garbage", 1))
}

func TestIntOr(t *testing.T) {
	assert.Equal(t, 3, IntOr("3", 1))
	assert.Equal(t, 1, IntOr("", 1))
	assert.Equal(t, 0, IntOr("x", 0))
}

func TestPositiveAmount(t *testing.T) {
	assert.True(t, PositiveAmount(0.01))
	assert.False(t, PositiveAmount(0))
	assert.False(t, PositiveAmount(-5))
}
