/*package error contains simple functions for reporting fatal parkit errors.
Library packages return errors; only the parkit binary calls these.
*/
package error

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

var (
	// Output is where fatal errors are written.
	Output io.Writer = os.Stderr
	// Exit ends the process. Tests replace it.
	Exit = os.Exit
)

// External reports an error to stderr and kills the program. It should be used
// when an error is something a user could reasonably be expected to fix
// through changes in configuration or environment. It has the same signature
// as the standard fmt.*printf() functions.
func External(format string, a ...interface{}) {
	fmt.Fprintf(Output, "parkit exited early with the following error:\n")
	fmt.Fprintf(Output, format, a...)
	fmt.Fprintf(Output, "\n")
	Exit(1)
}

// Internal reports an error to stderr along with a stack trace and kills the
// program. It should be used when the error requires a code dive to fix. It
// has the same signature as the standard fmt.*printf() functions.
func Internal(format string, a ...interface{}) {
	fmt.Fprintf(Output, "parkit exited early with the following internal error:\n")
	fmt.Fprintf(Output, format, a...)
	fmt.Fprintf(Output, "\n\n%s", debug.Stack())
	Exit(1)
}
