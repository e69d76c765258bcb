/*package mpi is a small wrapper around the parts of MPI that parkit needs:
rank queries, barriers, and max-reductions of timings. Without the mpi build
tag every function acts like a job with a single rank.
*/
package mpi

import (
	"fmt"
	"io"
)

// Root is the rank which prints output.
const Root = 0

// Comm is the world communicator.
type Comm struct{ }

// World is the only communicator parkit uses.
var World = &Comm{ }

// IsRoot returns true on the rank that should print output.
func (cm *Comm) IsRoot() bool { return cm.Rank() == Root }

// Fprintf writes to w on the root rank only.
func (cm *Comm) Fprintf(w io.Writer, format string, a ...interface{}) {
	if cm.IsRoot() { fmt.Fprintf(w, format, a...) }
}
