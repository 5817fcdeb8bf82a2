package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kabu1204/go-monad/deferred"
	"github.com/kabu1204/go-monad/internal/demo"
	"github.com/kabu1204/go-monad/laws"
	"github.com/kabu1204/go-monad/result"
	"github.com/kabu1204/go-monad/stream"
)

func newCoordsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "coords",
		Short: "Look up coordinates through optional response fields",
		RunE: func(cmd *cobra.Command, _ []string) error {
			responses := map[string]*demo.Response{
				"complete": {Location: &demo.Location{
					Country: "USA",
					City: &demo.City{
						Name:        "Boston",
						Coordinates: &demo.Coordinates{Latitude: 1234, Longitude: 2345},
					},
				}},
				"no location":    {},
				"no coordinates": {Location: &demo.Location{Country: "USA", City: &demo.City{Name: "Boston"}}},
			}
			for _, name := range []string{"complete", "no location", "no coordinates"} {
				out := demo.DescribeCoordinates(responses[name])
				a.log.Info("coordinates", zap.String("response", name), zap.String("result", out))
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}
}

func newLastsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lasts",
		Short: "Take the last element of each response independently",
		RunE: func(cmd *cobra.Command, _ []string) error {
			responses := [][]int{{1, 2, 3}, {1, 2}, {}, {4, 5}, {1}}
			for i, r := range demo.LastElements(responses) {
				line := result.Fold(r,
					func(e string) string { return e },
					func(v int) string { return fmt.Sprint(v) },
				)
				a.log.Debug("last element", zap.Int("response", i), zap.Stringer("result", r))
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Chain login, photo listing and export through deferred values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api := &demo.StubPhotoAPI{
				Latency: a.v.GetDuration("latency"),
				FailAt:  a.v.GetString("fail-at"),
				Photos:  a.v.GetStringSlice("photos"),
			}
			username := a.v.GetString("username")

			link := deferred.Timeout(
				demo.ExportPhotos(api, username, a.v.GetString("password")),
				a.v.GetDuration("timeout"),
			)
			v, err := link.Await(cmd.Context())
			if err != nil {
				a.log.Error("export failed", zap.String("username", username), zap.Strings("calls", api.Calls()), zap.Error(err))
				return fmt.Errorf("export: %w", err)
			}
			a.log.Info("export finished", zap.String("username", username), zap.Strings("calls", api.Calls()))
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.Flags().String("username", "ann", "account name")
	cmd.Flags().String("password", "secret", "account password")
	cmd.Flags().String("fail-at", "", "step that fails: login, photos or export")
	cmd.Flags().StringSlice("photos", []string{"photo1", "photo2", "photo3"}, "photo ids returned by the listing")
	cmd.Flags().Duration("latency", 50*time.Millisecond, "latency of every stubbed call")
	cmd.Flags().Duration("timeout", 5*time.Second, "overall export timeout")
	return cmd
}

func newLawsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "laws",
		Short: "Check the monad laws for every container",
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed := a.v.GetUint64("seed")
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			cfg := laws.SuiteConfig{
				Samples:         a.v.GetInt("samples"),
				Workers:         a.v.GetInt("workers"),
				DeferredTimeout: a.v.GetDuration("deferred-timeout"),
			}
			a.log.Info("checking laws", zap.Uint64("seed", seed), zap.Int("samples", cfg.Samples), zap.Int("workers", cfg.Workers))

			reports := laws.RunSuite(cmd.Context(), rand.New(rand.NewPCG(seed, 0)), cfg)
			failed := 0
			for _, r := range reports {
				if r.Err != nil {
					failed++
					a.log.Error("laws violated", zap.String("container", r.Container), zap.Error(r.Err))
					continue
				}
				a.log.Info("laws hold", zap.String("container", r.Container), zap.Int("samples", r.Samples))
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d samples)\n", r.Container, r.Samples)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d containers violate the monad laws (seed %d)", failed, len(reports), seed)
			}
			return nil
		},
	}
	cmd.Flags().Int("samples", 1000, "samples per container")
	cmd.Flags().Int("workers", 8, "samples checked concurrently")
	cmd.Flags().Uint64("seed", 0, "random seed, 0 picks one")
	cmd.Flags().Duration("deferred-timeout", 5*time.Second, "wait bound for each deferred comparison")
	return cmd
}

func newStreamCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Sort, page and reduce a number stream",
		RunE: func(cmd *cobra.Command, _ []string) error {
			nums := stream.Of(1, 5, 2, 7, 7, 8, 10, 5, 12, 6, 2, 6, 9, 3, 2, 4, 11)
			cmp := func(x, y int) int { return x - y }

			page := nums.Sorted(cmp).Limit(10).Skip(3).ToSlice()
			fmt.Fprintln(cmd.OutOrStdout(), page)

			sum := nums.Parallel(a.v.GetInt("parallel")).
				Distinct(func(i int) int { return i }).
				Peek(func(e int) { a.log.Debug("peek", zap.Int("element", e)) }).
				Reduce(func(acc, e int) int { return acc + e })
			if v, ok := sum.Get(); ok {
				fmt.Fprintln(cmd.OutOrStdout(), "sum of distinct:", v)
			}
			return nil
		},
	}
	cmd.Flags().Int("parallel", 4, "workers for the reduction")
	return cmd
}
