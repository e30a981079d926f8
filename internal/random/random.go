// Package random provides the shuffle and sampling primitives used to build rounds.
package random

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/memomu/internal/model"
)

// Source wraps a seeded RNG. It is not safe for concurrent use.
type Source struct {
	rnd *rand.Rand
}

// New returns a Source seeded with seed, or with the current time when seed is 0.
func New(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{rnd: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform value in [0,n).
func (s *Source) Intn(n int) int {
	return s.rnd.Intn(n)
}

// Float64 returns a uniform value in [0,1).
func (s *Source) Float64() float64 {
	return s.rnd.Float64()
}

// Shuffle returns a Fisher-Yates permutation of seq without mutating it.
func Shuffle[T any](s *Source, seq []T) []T {
	out := make([]T, len(seq))
	copy(out, seq)
	for i := len(out) - 1; i > 0; i-- {
		j := s.rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// SampleDistinct draws k unique indices in [0,poolSize) by rejection.
// The result keeps draw order.
func SampleDistinct(s *Source, poolSize, k int) ([]int, error) {
	if k < 0 || poolSize < 0 {
		return nil, fmt.Errorf("%w: sample %d of %d", model.ErrInvalidConfiguration, k, poolSize)
	}
	if k > poolSize {
		return nil, fmt.Errorf("%w: cannot sample %d distinct values from %d", model.ErrInvalidConfiguration, k, poolSize)
	}
	seen := make(map[int]struct{}, k)
	out := make([]int, 0, k)
	for len(out) < k {
		idx := s.rnd.Intn(poolSize)
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}
	return out, nil
}

// Pick returns a uniformly chosen element of seq. seq must be non-empty.
func Pick[T any](s *Source, seq []T) T {
	return seq[s.rnd.Intn(len(seq))]
}
