package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/tiercache/cache"
	"github.com/IvanBrykalov/tiercache/disk"
	pmet "github.com/IvanBrykalov/tiercache/metrics/prom"
	"github.com/IvanBrykalov/tiercache/policy/lru"
)

type benchFlags struct {
	capacity int
	policy   string
	lifetime time.Duration
	disk     bool

	workers  int
	duration time.Duration
	readPct  int

	keys    int
	zipfS   float64
	zipfV   float64
	seed    int64
	preload int

	pprofAddr   string
	metricsAddr string
}

func newBenchCmd(g *globalFlags) *cobra.Command {
	f := &benchFlags{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a synthetic workload against the cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd, g, f)
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&f.capacity, "cap", 100_000, "cache capacity (entries)")
	fl.StringVar(&f.policy, "policy", "fifo", "eviction policy: fifo | lru")
	fl.DurationVar(&f.lifetime, "lifetime", 0, "entry lifetime (0 = library default)")
	fl.BoolVar(&f.disk, "disk", false, "mirror writes to a disk tier in a temporary directory")
	fl.IntVar(&f.workers, "workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
	fl.DurationVar(&f.duration, "duration", 10*time.Second, "benchmark duration")
	fl.IntVar(&f.readPct, "reads", 80, "read percentage [0..100]")
	fl.IntVar(&f.keys, "keys", 1_000_000, "keyspace size")
	fl.Float64Var(&f.zipfS, "zipf_s", 1.1, "Zipf s > 1 (skew)")
	fl.Float64Var(&f.zipfV, "zipf_v", 1.0, "Zipf v")
	fl.Int64Var(&f.seed, "seed", time.Now().UnixNano(), "random seed")
	fl.IntVar(&f.preload, "preload", 0, "preload entries (0 = cap/2)")
	fl.StringVar(&f.pprofAddr, "pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
	fl.StringVar(&f.metricsAddr, "http", "", "serve Prometheus metrics at addr (e.g. :8080); empty = disabled")
	return cmd
}

func runBench(cmd *cobra.Command, g *globalFlags, f *benchFlags) error {
	log := g.log

	// ---- pprof (DefaultServeMux) / metrics servers ----
	if f.pprofAddr != "" {
		go func() {
			log.Info().Str("addr", f.pprofAddr).Msg("pprof: serving")
			log.Err(http.ListenAndServe(f.pprofAddr, nil)).Msg("pprof server stopped")
		}()
	}
	// Per-run registry so repeated runs in one process do not collide.
	reg := prometheus.NewRegistry()
	metrics := pmet.New(reg, "tiercache", "bench", nil)
	if f.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			log.Info().Str("addr", f.metricsAddr).Msg("metrics: serving")
			log.Err(http.ListenAndServe(f.metricsAddr, mux)).Msg("metrics server stopped")
		}()
	}

	// ---- Build cache ----
	opt := cache.Options[string, string]{
		Capacity:      f.capacity,
		EntryLifetime: f.lifetime,
		Metrics:       metrics,
		Logger:        &log,
	}
	switch f.policy {
	case "fifo":
		// nil => FIFO by default
	case "lru":
		opt.Policy = lru.New[string]()
	default:
		return fmt.Errorf("unknown policy: %q (use fifo or lru)", f.policy)
	}
	if f.disk {
		root, err := os.MkdirTemp("", "tiercache-bench-*")
		if err != nil {
			return err
		}
		defer func() { _ = os.RemoveAll(root) }()
		store, err := disk.New[string, string](disk.Config{Root: root, Logger: &log})
		if err != nil {
			return err
		}
		opt.Backend = store
	}
	c := cache.New[string, string](opt)
	defer func() { _ = c.Close() }()

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := f.preload
	if pl == 0 {
		pl = f.capacity / 2
	}
	for i := 0; i < pl; i++ {
		c.Insert("k:"+strconv.Itoa(i), "v"+strconv.Itoa(i))
	}

	workersN := f.workers
	if workersN <= 0 {
		workersN = 1
	}
	if f.keys < 1 {
		return errors.New("--keys must be positive")
	}
	keysMax := uint64(f.keys - 1)

	// ---- Load generation ----
	var reads, writes, hits, total atomic.Uint64
	ctx, cancel := context.WithTimeout(cmd.Context(), f.duration)
	defer cancel()

	start := time.Now()
	var eg errgroup.Group
	for w := 0; w < workersN; w++ {
		id := w
		eg.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			r := rand.New(rand.NewSource(f.seed + int64(id)*9973))
			zipf := rand.NewZipf(r, f.zipfS, f.zipfV, keysMax)
			key := func() string { return "k:" + strconv.FormatUint(zipf.Uint64(), 10) }

			for ctx.Err() == nil {
				total.Add(1)
				if int(r.Int31n(100)) < f.readPct {
					reads.Add(1)
					if _, ok := c.Value(key()); ok {
						hits.Add(1)
					}
					continue
				}
				writes.Add(1)
				c.Insert(key(), "v"+strconv.Itoa(r.Int()))
			}
			return nil
		})
	}
	_ = eg.Wait()
	elapsed := time.Since(start)

	// ---- Report ----
	readsN, hitsN := reads.Load(), hits.Load()
	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "policy=%s cap=%d disk=%v workers=%d keys=%d dur=%v seed=%d\n",
		f.policy, f.capacity, f.disk, workersN, f.keys, elapsed, f.seed)
	fmt.Fprintf(out, "ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		total.Load(), float64(total.Load())/elapsed.Seconds(), readsN, writes.Load())
	fmt.Fprintf(out, "hits=%d  misses=%d  hit-rate=%.2f%%\n", hitsN, readsN-hitsN, hitRate)
	fmt.Fprintf(out, "Len()=%d\n", c.Len())
	return nil
}
