/*package array implements Array, a dense, fixed-shape, multidimensional
array with bounds-checked multi-index access. Arrays are the data that
parallel kernels read and write: the array itself does no locking, so callers
which write from several workers must partition indices between them.
*/
package array

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrOutOfRange is matched by every error returned when a multi-index
	// falls outside an Array's extents.
	ErrOutOfRange = errors.New("array: index out of range")
	// ErrBadShape is returned when an Array is created with an invalid shape.
	ErrBadShape = errors.New("array: invalid shape")
)

// OutOfRangeError describes a failed access. Dim is -1 when the number of
// indices doesn't match the rank of the array.
type OutOfRangeError struct {
	Index []int
	Shape Shape
	Dim   int
}

func (e *OutOfRangeError) Error() string {
	if e.Dim < 0 {
		return fmt.Sprintf("%s: %d indices given for an array of rank %d",
			ErrOutOfRange.Error(), len(e.Index), len(e.Shape))
	}
	return fmt.Sprintf("%s: index %d along dimension %d, extent %d (index %v, shape %v)",
		ErrOutOfRange.Error(), e.Index[e.Dim], e.Dim, e.Shape[e.Dim],
		e.Index, e.Shape)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// Shape is the list of extents of an Array, outermost dimension first.
type Shape []int

// Len returns the number of elements in an array with this shape, or -1 if
// an extent is negative or the product doesn't fit in an int.
func (s Shape) Len() int {
	for _, ext := range s {
		if ext < 0 { return -1 }
		if ext == 0 { return 0 }
	}
	n := 1
	for _, ext := range s {
		if n > math.MaxInt / ext { return -1 }
		n *= ext
	}
	return n
}

// Offset returns the row-major offset of idx into a flat buffer.
func (s Shape) Offset(idx []int) (int, error) {
	if len(idx) != len(s) {
		return 0, &OutOfRangeError{ Index: clone(idx), Shape: s, Dim: -1 }
	}

	off := 0
	for dim := range s {
		if idx[dim] < 0 || idx[dim] >= s[dim] {
			return 0, &OutOfRangeError{ Index: clone(idx), Shape: s, Dim: dim }
		}
		off = off*s[dim] + idx[dim]
	}
	return off, nil
}

// Index is the inverse of Offset. It writes the multi-index of a flat offset
// into idx, which must have length len(s). The offset is not checked.
func (s Shape) Index(off int, idx []int) {
	for dim := len(s) - 1; dim >= 0; dim-- {
		if s[dim] == 0 {
			idx[dim] = 0
			continue
		}
		idx[dim] = off % s[dim]
		off /= s[dim]
	}
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i := range s { parts[i] = fmt.Sprint(s[i]) }
	return "[" + strings.Join(parts, " x ") + "]"
}

// Array is a dense multidimensional array of T stored in row-major order.
// Its shape is fixed at creation.
type Array[T any] struct {
	shape Shape
	data  []T
}

// New creates a zero-valued Array with the given extents. At least one extent
// is required, and extents may not be negative. A zero extent gives an empty
// array.
func New[T any](extents ...int) (*Array[T], error) {
	if len(extents) == 0 {
		return nil, fmt.Errorf("%w: rank must be at least 1", ErrBadShape)
	}
	for dim, ext := range extents {
		if ext < 0 {
			return nil, fmt.Errorf("%w: extent %d of dimension %d is negative",
				ErrBadShape, ext, dim)
		}
	}

	shape := Shape(clone(extents))
	if shape.Len() < 0 {
		return nil, fmt.Errorf("%w: shape %v has more elements than an " +
			"int can count", ErrBadShape, shape)
	}
	return &Array[T]{ shape: shape, data: make([]T, shape.Len()) }, nil
}

// Rank returns the number of dimensions.
func (a *Array[T]) Rank() int { return len(a.shape) }

// Len returns the total number of elements.
func (a *Array[T]) Len() int { return len(a.data) }

// Extent returns the size of dimension dim. It panics if dim isn't in
// [0, Rank()).
func (a *Array[T]) Extent(dim int) int { return a.shape[dim] }

// Shape returns a copy of the array's extents.
func (a *Array[T]) Shape() Shape { return Shape(clone(a.shape)) }

// Data returns the underlying row-major buffer. Writes through it are visible
// to the array.
func (a *Array[T]) Data() []T { return a.data }

// Offset returns the position of idx in Data().
func (a *Array[T]) Offset(idx ...int) (int, error) {
	return a.shape.Offset(idx)
}

// At returns the element at idx.
func (a *Array[T]) At(idx ...int) (T, error) {
	off, err := a.shape.Offset(idx)
	if err != nil {
		var zero T
		return zero, err
	}
	return a.data[off], nil
}

// Set writes v to the element at idx.
func (a *Array[T]) Set(v T, idx ...int) error {
	off, err := a.shape.Offset(idx)
	if err != nil { return err }
	a.data[off] = v
	return nil
}

// Ptr returns a mutable reference to the element at idx.
func (a *Array[T]) Ptr(idx ...int) (*T, error) {
	off, err := a.shape.Offset(idx)
	if err != nil { return nil, err }
	return &a.data[off], nil
}

func clone(x []int) []int {
	out := make([]int, len(x))
	copy(out, x)
	return out
}
