// Package parallel runs data-parallel work either sequentially or on a
// bounded worker pool. Both paths produce identical results; the pool is only
// used once the input exceeds the strategy threshold.
package parallel

import (
	"slices"

	"golang.org/x/sync/errgroup"
)

// DefaultThreshold is the input size above which work fans out
const DefaultThreshold = 1000

// Strategy selects between sequential and worker-pool execution
type Strategy struct {
	Workers   int // Pool size; 1 or less forces sequential execution
	Threshold int // Inputs of this size or smaller run sequentially
}

// Sequential returns a strategy that never fans out
func Sequential() Strategy {
	return Strategy{Workers: 1, Threshold: DefaultThreshold}
}

// Enabled reports whether an input of size n runs on the pool
func (s Strategy) Enabled(n int) bool {
	return s.Workers > 1 && n > s.Threshold
}

// Map applies fn to every element of in and keeps the results for which fn
// reports true. The output preserves input order.
func Map[T, R any](s Strategy, in []T, fn func(T) (R, bool)) []R {
	if !s.Enabled(len(in)) {
		out := make([]R, 0, len(in))
		for _, v := range in {
			if r, ok := fn(v); ok {
				out = append(out, r)
			}
		}
		return out
	}

	results := make([]R, len(in))
	keep := make([]bool, len(in))

	var g errgroup.Group
	g.SetLimit(s.Workers)
	for i := range in {
		g.Go(func() error {
			results[i], keep[i] = fn(in[i])
			return nil
		})
	}
	_ = g.Wait()

	out := results[:0]
	for i := range results {
		if keep[i] {
			out = append(out, results[i])
		}
	}
	return out
}

// ForEach calls fn for every element of in
func ForEach[T any](s Strategy, in []T, fn func(T)) {
	if !s.Enabled(len(in)) {
		for _, v := range in {
			fn(v)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(s.Workers)
	for _, v := range in {
		g.Go(func() error {
			fn(v)
			return nil
		})
	}
	_ = g.Wait()
}

// SortStable sorts items in place with a stable sort. On the pool path the
// slice is split into one run per worker, runs are sorted concurrently and
// then merged pairwise, which yields exactly the sequential order.
func SortStable[T any](s Strategy, items []T, cmp func(a, b T) int) {
	n := len(items)
	if !s.Enabled(n) {
		slices.SortStableFunc(items, cmp)
		return
	}

	runs := min(s.Workers, n)
	size := (n + runs - 1) / runs

	var g errgroup.Group
	g.SetLimit(s.Workers)
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		g.Go(func() error {
			slices.SortStableFunc(items[lo:hi], cmp)
			return nil
		})
	}
	_ = g.Wait()

	buf := make([]T, n)
	for width := size; width < n; width *= 2 {
		var mg errgroup.Group
		mg.SetLimit(s.Workers)
		for lo := 0; lo < n; lo += 2 * width {
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			if mid == hi {
				continue
			}
			mg.Go(func() error {
				merge(buf[lo:hi], items[lo:mid], items[mid:hi], cmp)
				copy(items[lo:hi], buf[lo:hi])
				return nil
			})
		}
		_ = mg.Wait()
	}
}

// merge writes the stable merge of left and right into dst. Ties take the
// left element first.
func merge[T any](dst, left, right []T, cmp func(a, b T) int) {
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if cmp(left[i], right[j]) <= 0 {
			dst[k] = left[i]
			i++
		} else {
			dst[k] = right[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], left[i:])
	copy(dst[k:], right[j:])
}
