/*package eq is a simple package for telling whether two arrays are equal to
one another.*/
package eq

// Float is the set of floating point element types eq can compare within a
// tolerance.
type Float interface {
	~float32 | ~float64
}

// Slices returns true if two arrays have the same length and values and false
// otherwise.
func Slices[T comparable](x, y []T) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// SlicesEps returns true if the two arrays are within eps of one another and
// false otherwise.
func SlicesEps[T Float](x, y []T, eps T) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] + eps < y[i] || x[i] - eps > y[i] {
			return false
		}
	}
	return true
}

// Counts returns true if every element of counts is exactly n. It's used to
// check that a parallel loop visited every index the right number of times.
func Counts[T ~int | ~int32 | ~int64](counts []T, n T) bool {
	for i := range counts {
		if counts[i] != n { return false }
	}
	return true
}
