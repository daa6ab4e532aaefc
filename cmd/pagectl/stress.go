package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aclements/go-moremath/stats"
	"github.com/spf13/cobra"

	"github.com/joshuapare/pagekit/internal/logger"
	"github.com/joshuapare/pagekit/kalloc"
)

var (
	stressWorkers int
	stressRounds  int
	stressShare   int
	stressSeed    uint64
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressWorkers, "workers", 8, "Concurrent workers")
	cmd.Flags().IntVar(&stressRounds, "rounds", 10000, "Allocations per worker")
	cmd.Flags().IntVar(&stressShare, "share", 25, "Percent of pages shared with a forked child")
	cmd.Flags().Uint64Var(&stressSeed, "seed", 1, "Random seed")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stress",
		Short: "Run concurrent allocate/share/free workers against the allocator",
		Long: `The stress command runs workers that repeatedly allocate a page, write
to it, sometimes share it with a simulated forked child that frees its copy
concurrently, and free it. Afterwards it checks that every seeded page can
be allocated again and reports allocation latency.

Example:
  pagectl stress
  pagectl stress --workers 16 --rounds 50000 --share 50 --mem 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
}

// StressResult is the JSON form of the stress report.
type StressResult struct {
	Workers   int     `json:"workers"`
	Allocs    int     `json:"allocs"`
	Shared    int     `json:"shared"`
	OOM       int     `json:"oom"`
	Elapsed   string  `json:"elapsed"`
	MeanNs    float64 `json:"mean_ns"`
	StdDevNs  float64 `json:"stddev_ns"`
	P50Ns     float64 `json:"p50_ns"`
	P99Ns     float64 `json:"p99_ns"`
	MaxNs     float64 `json:"max_ns"`
	Recovered int     `json:"recovered"`
}

type workerStats struct {
	latencies []float64
	shared    int
	oom       int
}

func runStress() error {
	if stressWorkers <= 0 || stressRounds <= 0 {
		return errors.New("--workers and --rounds must be positive")
	}
	if stressShare < 0 || stressShare > 100 {
		return fmt.Errorf("--share must be between 0 and 100, got %d", stressShare)
	}

	ka, cleanup, err := bootAllocator()
	if err != nil {
		return err
	}
	defer cleanup()

	results := make([]workerStats, stressWorkers)
	var wg sync.WaitGroup
	begin := time.Now()
	for w := 0; w < stressWorkers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(stressSeed, uint64(w)))
			results[w] = stressWorker(ka, byte(w+1), rng)
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(begin)

	res := StressResult{Workers: stressWorkers, Elapsed: elapsed.String()}
	var xs []float64
	for _, r := range results {
		xs = append(xs, r.latencies...)
		res.Shared += r.shared
		res.OOM += r.oom
	}
	res.Allocs = len(xs)
	if len(xs) > 0 {
		s := stats.Sample{Xs: xs}
		s.Sort()
		res.MeanNs = s.Mean()
		res.StdDevNs = s.StdDev()
		res.P50Ns = s.Quantile(0.5)
		res.P99Ns = s.Quantile(0.99)
		_, res.MaxNs = s.Bounds()
	}

	// Every page must have found its way back to the pool.
	want := ka.Layout().Pages()
	for {
		_, err := ka.Alloc()
		if errors.Is(err, kalloc.ErrNoMemory) {
			break
		}
		if err != nil {
			return err
		}
		res.Recovered++
	}
	logger.Info("pagectl: stress finished",
		"workers", res.Workers,
		"allocs", res.Allocs,
		"shared", res.Shared,
		"oom", res.OOM,
		"recovered", res.Recovered,
		"p99_ns", res.P99Ns)
	if res.OOM > 0 {
		logger.Warn("pagectl: pool ran dry during stress", "oom", res.OOM)
	}
	if res.Recovered != want {
		return fmt.Errorf("recovered %d pages after stress, want %d", res.Recovered, want)
	}

	if jsonOut {
		return printJSON(res)
	}
	printInfo("workers:   %d\n", res.Workers)
	printInfo("allocs:    %d (%d shared, %d out of memory)\n", res.Allocs, res.Shared, res.OOM)
	printInfo("elapsed:   %s\n", res.Elapsed)
	printInfo("latency:   mean %.0fns stddev %.0fns p50 %.0fns p99 %.0fns max %.0fns\n",
		res.MeanNs, res.StdDevNs, res.P50Ns, res.P99Ns, res.MaxNs)
	printInfo("recovered: %d pages\n", res.Recovered)
	return nil
}

// stressWorker plays one process: allocate, touch, maybe fork a child that
// shares the page, then exit.
func stressWorker(ka *kalloc.Allocator, tag byte, rng *rand.Rand) workerStats {
	var st workerStats
	mem := ka.Memory()
	for i := 0; i < stressRounds; i++ {
		t0 := time.Now()
		p, err := ka.Alloc()
		lat := time.Since(t0)
		if err != nil {
			st.oom++
			continue
		}
		st.latencies = append(st.latencies, float64(lat.Nanoseconds()))

		mem.Page(p)[0] = tag

		if rng.IntN(100) < stressShare {
			st.shared++
			ka.AddOwner(p)
			done := make(chan struct{})
			go func() {
				defer close(done)
				ka.Free(p)
			}()
			ka.Free(p)
			<-done
			continue
		}
		ka.Free(p)
	}
	return st
}
