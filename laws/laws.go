// Package laws checks the monad laws for any container that offers a unit
// and a bind:
//
//	left identity:  Bind(Unit(x), f)          == f(x)
//	right identity: Bind(m, Unit)             == m
//	associativity:  Bind(Bind(m, f), g)       == Bind(m, x -> Bind(f(x), g))
//
// Equality is supplied by the instance, so asynchronous containers can wait
// for settlement before comparing.
package laws

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	LeftIdentity  = "left identity"
	RightIdentity = "right identity"
	Associativity = "associativity"
)

// Violation reports one failed law for one sample.
type Violation struct {
	Container string
	Law       string
	Sample    int
	Detail    string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s violated by sample %d: %s", v.Container, v.Law, v.Sample, v.Detail)
}

type Harness[A, M any] struct {
	Name  string
	Unit  func(A) M
	Bind  func(M, func(A) M) M
	Equal func(M, M) bool
	// Show renders a container in violation reports. Optional.
	Show func(M) string
}

// Sample is one point at which all three laws are checked. M is used for
// right identity and associativity, X for left identity.
type Sample[A, M any] struct {
	X A
	M M
	F func(A) M
	G func(A) M
}

func (h Harness[A, M]) show(m M) string {
	if h.Show != nil {
		return h.Show(m)
	}
	return fmt.Sprintf("%v", m)
}

func (h Harness[A, M]) violation(law string, i int, left, right M) *Violation {
	return &Violation{
		Container: h.Name,
		Law:       law,
		Sample:    i,
		Detail:    fmt.Sprintf("%s != %s", h.show(left), h.show(right)),
	}
}

func (h Harness[A, M]) LeftIdentity(x A, f func(A) M) bool {
	return h.Equal(h.Bind(h.Unit(x), f), f(x))
}

func (h Harness[A, M]) RightIdentity(m M) bool {
	return h.Equal(h.Bind(m, h.Unit), m)
}

func (h Harness[A, M]) Associativity(m M, f, g func(A) M) bool {
	left := h.Bind(h.Bind(m, f), g)
	right := h.Bind(m, func(x A) M { return h.Bind(f(x), g) })
	return h.Equal(left, right)
}

func (h Harness[A, M]) checkSample(i int, s Sample[A, M]) []error {
	var errs []error
	if l, r := h.Bind(h.Unit(s.X), s.F), s.F(s.X); !h.Equal(l, r) {
		errs = append(errs, h.violation(LeftIdentity, i, l, r))
	}
	if l := h.Bind(s.M, h.Unit); !h.Equal(l, s.M) {
		errs = append(errs, h.violation(RightIdentity, i, l, s.M))
	}
	l := h.Bind(h.Bind(s.M, s.F), s.G)
	r := h.Bind(s.M, func(x A) M { return h.Bind(s.F(x), s.G) })
	if !h.Equal(l, r) {
		errs = append(errs, h.violation(Associativity, i, l, r))
	}
	return errs
}

// Check verifies every law for every sample, running up to workers samples
// at once. All violations are returned joined; nil means every law held.
func (h Harness[A, M]) Check(ctx context.Context, workers int, samples []Sample[A, M]) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	var mu sync.Mutex
	var violations []error
	for i, s := range samples {
		i, s := i, s
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			errs := h.checkSample(i, s)
			if len(errs) > 0 {
				mu.Lock()
				violations = append(violations, errs...)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Join(violations...)
}
