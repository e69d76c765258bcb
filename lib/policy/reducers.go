package policy

import (
	"math"
)

// Number is the set of element types the built-in reducers work on.
type Number interface {
	int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// Sum creates a reduction which adds values together.
func Sum[T Number](n int) ReducePolicy[T] {
	return ReduceRange(n, T(0), func(a, b T) T { return a + b })
}

// Prod creates a reduction which multiplies values together.
func Prod[T Number](n int) ReducePolicy[T] {
	return ReduceRange(n, T(1), func(a, b T) T { return a * b })
}

// Min creates a reduction which finds the smallest value. The identity is the
// largest value of T (+Inf for floats).
func Min[T Number](n int) ReducePolicy[T] {
	return ReduceRange(n, maxValue[T](), func(a, b T) T {
		if b < a { return b }
		return a
	})
}

// Max creates a reduction which finds the largest value. The identity is the
// smallest value of T (-Inf for floats).
func Max[T Number](n int) ReducePolicy[T] {
	return ReduceRange(n, minValue[T](), func(a, b T) T {
		if b > a { return b }
		return a
	})
}

func maxValue[T Number]() T {
	var x T
	var v any
	switch any(x).(type) {
	case int: v = int(math.MaxInt)
	case int8: v = int8(math.MaxInt8)
	case int16: v = int16(math.MaxInt16)
	case int32: v = int32(math.MaxInt32)
	case int64: v = int64(math.MaxInt64)
	case uint: v = uint(math.MaxUint)
	case uint8: v = uint8(math.MaxUint8)
	case uint16: v = uint16(math.MaxUint16)
	case uint32: v = uint32(math.MaxUint32)
	case uint64: v = uint64(math.MaxUint64)
	case float32: v = float32(math.Inf(1))
	case float64: v = math.Inf(1)
	}
	return v.(T)
}

func minValue[T Number]() T {
	var x T
	var v any
	switch any(x).(type) {
	case int: v = int(math.MinInt)
	case int8: v = int8(math.MinInt8)
	case int16: v = int16(math.MinInt16)
	case int32: v = int32(math.MinInt32)
	case int64: v = int64(math.MinInt64)
	case float32: v = float32(math.Inf(-1))
	case float64: v = math.Inf(-1)
	default:
		// Unsigned types.
		return x
	}
	return v.(T)
}
