package laws

import (
	"context"
	"fmt"
	"time"

	"github.com/kabu1204/go-monad/deferred"
	"github.com/kabu1204/go-monad/optional"
	"github.com/kabu1204/go-monad/result"
)

// Optional uses Some as unit: Of maps a nil sample to None, which would break
// left identity for pointer-like A.
func Optional[A comparable]() Harness[A, optional.Optional[A]] {
	return Harness[A, optional.Optional[A]]{
		Name: "optional",
		Unit: optional.Some[A],
		Bind: optional.Bind[A, A],
		Equal: func(a, b optional.Optional[A]) bool {
			va, oka := a.Get()
			vb, okb := b.Get()
			return oka == okb && (!oka || va == vb)
		},
		Show: optional.Optional[A].String,
	}
}

func Result[E, A comparable]() Harness[A, result.Result[E, A]] {
	return Harness[A, result.Result[E, A]]{
		Name: "result",
		Unit: result.Success[E, A],
		Bind: result.Bind[E, A, A],
		Equal: func(a, b result.Result[E, A]) bool {
			if a.IsSuccess() != b.IsSuccess() {
				return false
			}
			if a.IsSuccess() {
				va, _ := a.SuccessValue()
				vb, _ := b.SuccessValue()
				return va == vb
			}
			ea, _ := a.FailureValue()
			eb, _ := b.FailureValue()
			return ea == eb
		},
		Show: result.Result[E, A].String,
	}
}

// Deferred compares two deferreds by waiting up to timeout for each to
// settle. A deferred that does not settle in time is unequal to everything.
func Deferred[A comparable](timeout time.Duration) Harness[A, *deferred.Deferred[A]] {
	outcome := func(d *deferred.Deferred[A]) (A, bool, error) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		v, err := d.Await(ctx)
		return v, ctx.Err() == nil, err
	}
	return Harness[A, *deferred.Deferred[A]]{
		Name: "deferred",
		Unit: deferred.Resolved[A],
		Bind: deferred.Bind[A, A],
		Equal: func(a, b *deferred.Deferred[A]) bool {
			va, oka, ea := outcome(a)
			vb, okb, eb := outcome(b)
			if !oka || !okb {
				return false
			}
			if ea != nil || eb != nil {
				return ea != nil && eb != nil && ea.Error() == eb.Error()
			}
			return va == vb
		},
		Show: func(d *deferred.Deferred[A]) string {
			v, ok, err := outcome(d)
			switch {
			case !ok:
				return "Pending"
			case err != nil:
				return "Rejected(" + err.Error() + ")"
			}
			return fmt.Sprintf("Fulfilled(%v)", v)
		},
	}
}
