package config

// RunMode indicates whether parkit is running as a single process or as one
// rank of an MPI job.
type RunMode int
const (
	LocalMode RunMode = iota
	MPIMode
)

func (m RunMode) String() string {
	switch m {
	case LocalMode: return "local"
	case MPIMode: return "mpi"
	}
	return "unknown"
}

// CheckStrictness indicates how Check should behave when it encounters a
// problem.
type CheckStrictness int
const (
	CrashOnError CheckStrictness = iota
	WarnOnError
)
