package policy

// Chunk is a contiguous range of indices [Start, End) given to one worker.
type Chunk struct {
	Start, End int
}

// Len returns the number of indices in the chunk.
func (c Chunk) Len() int { return c.End - c.Start }

// Chunks splits [0, n) into at most workers contiguous chunks of
// ceil(n / workers) indices each. The last chunk may be shorter, and small n
// can give fewer chunks than workers. n <= 0 gives no chunks. workers < 1 is
// treated as 1.
//
// Every execution space uses this partition, so for a fixed (n, workers) the
// grouping of reduction partials is always the same.
func Chunks(n, workers int) []Chunk {
	if n <= 0 { return nil }
	if workers < 1 { workers = 1 }

	size := (n + workers - 1) / workers
	out := make([]Chunk, 0, (n + size - 1) / size)
	for start := 0; start < n; start += size {
		out = append(out, Chunk{ start, min(start + size, n) })
	}
	return out
}
