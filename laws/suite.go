package laws

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/kabu1204/go-monad/deferred"
	"github.com/kabu1204/go-monad/optional"
	"github.com/kabu1204/go-monad/result"
)

// Report is the outcome of checking one container.
type Report struct {
	Container string
	Samples   int
	Err       error
}

type SuiteConfig struct {
	Samples int
	Workers int
	// DeferredTimeout bounds each wait for a deferred to settle.
	DeferredTimeout time.Duration
}

// RunSuite checks the three containers over int samples drawn from rng. The
// bound functions mix successful and failing steps so short-circuiting is
// exercised too.
func RunSuite(ctx context.Context, rng *rand.Rand, cfg SuiteConfig) []Report {
	xs := make([]int, cfg.Samples)
	ks := make([]int, cfg.Samples)
	for i := range xs {
		xs[i] = rng.IntN(2001) - 1000
		ks[i] = rng.IntN(5) + 2
	}

	return []Report{
		{Container: "optional", Samples: cfg.Samples, Err: Optional[int]().Check(ctx, cfg.Workers, optionalSamples(xs, ks))},
		{Container: "result", Samples: cfg.Samples, Err: Result[string, int]().Check(ctx, cfg.Workers, resultSamples(xs, ks))},
		{Container: "deferred", Samples: cfg.Samples, Err: Deferred[int](cfg.DeferredTimeout).Check(ctx, cfg.Workers, deferredSamples(xs, ks))},
	}
}

func optionalSamples(xs, ks []int) []Sample[int, optional.Optional[int]] {
	samples := make([]Sample[int, optional.Optional[int]], len(xs))
	for i, x := range xs {
		k := ks[i]
		m := optional.Some(x)
		if i%4 == 0 {
			m = optional.None[int]()
		}
		samples[i] = Sample[int, optional.Optional[int]]{
			X: x,
			M: m,
			F: func(v int) optional.Optional[int] { return optional.Some(v * k) },
			G: func(v int) optional.Optional[int] {
				if v%k == 0 {
					return optional.None[int]()
				}
				return optional.Some(v + k)
			},
		}
	}
	return samples
}

func resultSamples(xs, ks []int) []Sample[int, result.Result[string, int]] {
	samples := make([]Sample[int, result.Result[string, int]], len(xs))
	for i, x := range xs {
		k := ks[i]
		m := result.Success[string](x)
		if i%4 == 0 {
			m = result.Failure[string, int](fmt.Sprintf("sample %d", i))
		}
		samples[i] = Sample[int, result.Result[string, int]]{
			X: x,
			M: m,
			F: func(v int) result.Result[string, int] {
				if v < 0 {
					return result.Failure[string, int](fmt.Sprintf("negative %d", v))
				}
				return result.Success[string](v - k)
			},
			G: func(v int) result.Result[string, int] { return result.Success[string](v * k) },
		}
	}
	return samples
}

func deferredSamples(xs, ks []int) []Sample[int, *deferred.Deferred[int]] {
	samples := make([]Sample[int, *deferred.Deferred[int]], len(xs))
	for i, x := range xs {
		k := ks[i]
		m := deferred.After(time.Duration(k)*time.Microsecond, x)
		if i%4 == 0 {
			m = deferred.Rejected[int](fmt.Errorf("sample %d", i))
		}
		samples[i] = Sample[int, *deferred.Deferred[int]]{
			X: x,
			M: m,
			F: func(v int) *deferred.Deferred[int] {
				if v%k == 0 {
					return deferred.Rejected[int](fmt.Errorf("divisible by %d", k))
				}
				return deferred.After(time.Microsecond, v+k)
			},
			G: func(v int) *deferred.Deferred[int] { return deferred.Resolved(v * k) },
		}
	}
	return samples
}
