package fixed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kernsched/fixed"
)

func TestCompile(t *testing.T) {
}

func TestConvert(t *testing.T) {
	assert.Equal(t, int32(3*fixed.F), int32(fixed.FromInt(3)))
	assert.Equal(t, 3, fixed.FromInt(3).TruncInt())
	assert.Equal(t, -3, fixed.FromInt(-3).TruncInt())
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	half := fixed.T(fixed.F / 2)
	assert.Equal(t, 1, half.RoundInt())
	assert.Equal(t, -1, (-half).RoundInt())
}

func TestArithmetic(t *testing.T) {
	x := fixed.FromInt(5)
	y := fixed.FromInt(2)

	assert.Equal(t, 7, x.Add(y).TruncInt())
	assert.Equal(t, 3, x.Sub(y).TruncInt())
	assert.Equal(t, 8, x.AddInt(3).TruncInt())
	assert.Equal(t, 2, x.SubInt(3).TruncInt())
	assert.Equal(t, 10, x.Mul(y).TruncInt())
	assert.Equal(t, 10, x.MulInt(2).TruncInt())
	assert.Equal(t, 3, x.Div(y).RoundInt())
	assert.Equal(t, 2, x.DivInt(2).TruncInt())
}

// load_avg bootstrap scenario from spec.md §8: starting at 0 with exactly
// one ready thread each second, after k seconds load_avg = 1 - (59/60)^k.
// At k=60, load_avg ~= 0.6322, i.e. get_load_avg() ~= 63.
func TestLoadAvgBootstrapClosedForm(t *testing.T) {
	loadAvg := fixed.FromInt(0)
	c59 := fixed.FromInt(59).DivInt(60)
	c1 := fixed.FromInt(1).DivInt(60)

	for i := 0; i < 60; i++ {
		loadAvg = c59.Mul(loadAvg).Add(c1.MulInt(1))
	}

	got := loadAvg.MulInt(100).RoundInt()
	assert.InDelta(t, 63, got, 1)
}
