// Package fixed implements the signed Q17.14 fixed-point arithmetic the
// MLFQ policy runs its recurrences in. Grounded on
// original_source/src/threads/fixed_point.h; kept as a distinct type
// (rather than a plain int32) per spec.md §9's design note that mixing
// fixed-point and integer values by accident should be a compile error.
package fixed

// Q is the number of fractional bits; F is the corresponding scale
// factor. Q is a literal constant; kconf.FixedQ carries the same number
// as a tunable but is not read here.
const Q = 14

// F is 2^Q.
const F int32 = 1 << Q

// T is a Q17.14 signed fixed-point value.
type T int32

// FromInt converts an integer to fixed point: n * F.
func FromInt(n int) T {
	return T(int32(n) * F)
}

// TruncInt truncates toward zero: x / F.
func (x T) TruncInt() int {
	return int(int32(x) / F)
}

// RoundInt rounds to the nearest integer, half away from zero.
func (x T) RoundInt() int {
	v := int32(x)
	if v >= 0 {
		return int((v + F/2) / F)
	}
	return int((v - F/2) / F)
}

// Add returns x + y.
func (x T) Add(y T) T { return x + y }

// Sub returns x - y.
func (x T) Sub(y T) T { return x - y }

// AddInt returns x + n (n converted to fixed point first).
func (x T) AddInt(n int) T {
	return x + FromInt(n)
}

// SubInt returns x - n.
func (x T) SubInt(n int) T {
	return x - FromInt(n)
}

// Mul returns x * y, computed in a 64-bit accumulator to avoid
// overflowing the intermediate product before truncation.
func (x T) Mul(y T) T {
	return T((int64(x) * int64(y)) / int64(F))
}

// MulInt returns x * n.
func (x T) MulInt(n int) T {
	return T(int32(x) * int32(n))
}

// Div returns x / y, computed in a 64-bit accumulator.
func (x T) Div(y T) T {
	return T((int64(x) * int64(F)) / int64(y))
}

// DivInt returns x / n.
func (x T) DivInt(n int) T {
	return T(int32(x) / int32(n))
}
