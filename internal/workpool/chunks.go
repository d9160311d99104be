package workpool

import "math"

// Chunk is a half-open range [Begin, End) of flat work indices assigned
// to one goroutine.
type Chunk struct {
	Begin, End int
}

// Chunks splits the range [0, total) into n pieces using the same
// floating-point rounding the reference engine uses for load
// balancing: step = total/n, and the boundary after chunk i is
// round(step*(i+1)). Chunks that end up empty (consecutive rounded
// boundaries collide) are dropped rather than submitted as no-op jobs.
func Chunks(total, n int) []Chunk {
	if n <= 0 {
		panic("workpool: chunk count must be positive")
	}
	step := float64(total) / float64(n)
	chunks := make([]Chunk, 0, n)
	start := 0
	for i := 0; i < n; i++ {
		end := int(math.Floor(step*float64(i+1) + 0.5))
		if start != end {
			chunks = append(chunks, Chunk{Begin: start, End: end})
		}
		start = end
	}
	return chunks
}

// SubmitAll splits [0, total) into chunks sized for the pool and runs
// fn once per non-empty chunk, blocking until every chunk has
// completed. fn must be safe to call concurrently from different
// goroutines over disjoint ranges.
func SubmitAll(p *Pool, total int, fn func(begin, end int)) error {
	chunks := Chunks(total, p.Size())
	futures := make([]*Future, 0, len(chunks))
	for _, c := range chunks {
		c := c
		futures = append(futures, p.Submit(func() {
			fn(c.Begin, c.End)
		}))
	}
	var firstErr error
	for _, f := range futures {
		if err := f.Get(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
