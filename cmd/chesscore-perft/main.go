// Command chesscore-perft counts move-generation trees: a single position,
// a per-move divide, or whole suites of positions with known counts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/perft"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	configPath = flag.String("config", "", "YAML configuration file")
	fen        = flag.String("fen", "", "position to count (default: start position)")
	depth      = flag.Int("depth", 0, "count a single position to this depth instead of running suites")
	divide     = flag.Bool("divide", false, "print the count below each root move")
	suiteName  = flag.String("suite", "", "run only the named suite")
	maxDepth   = flag.Int("max-depth", 4, "deepest suite depth to check (0 = all known)")
	workers    = flag.Int("workers", 0, "root moves counted in parallel (0 = GOMAXPROCS)")
	promotions = flag.String("promotions", "", "promotion pieces to generate: all, queen or queen-knight")
	useCache   = flag.Bool("cache", false, "store and reuse results on disk")
	cacheDir   = flag.String("cache-dir", "", "result store directory")
	tableSize  = flag.Int("table", -1, "in-memory subtree cache entries (0 disables)")
	verbosity  = flag.Int("v", 0, "log verbosity")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		logger.Info("CPU profiling enabled", "path", profilePath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code, err := run(ctx, logger)
	if err != nil {
		logger.Error(err, "perft failed")
		code = 1
	}
	if code != 0 {
		pprof.StopCPUProfile()
		os.Exit(code)
	}
}

// loadConfig reads the configuration and applies the flags that were set.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			cfg.Workers = *workers
		case "promotions":
			cfg.Promotions = *promotions
		case "cache":
			cfg.Cache.Enabled = *useCache
		case "cache-dir":
			cfg.Cache.Dir = *cacheDir
		case "table":
			cfg.Cache.TableSize = *tableSize
		}
	})

	return cfg, cfg.Validate()
}

func run(ctx context.Context, logger logr.Logger) (int, error) {
	cfg, err := loadConfig()
	if err != nil {
		return 1, err
	}

	opts := perft.Options{
		Workers:    cfg.Workers,
		Promotions: cfg.PromotionMode(),
		TableSize:  cfg.Cache.TableSize,
		Logger:     logger.WithName("perft"),
	}
	if cfg.Cache.Enabled {
		store, err := storage.Open(storage.Options{Dir: cfg.Cache.Dir, Logger: logger.WithName("storage")})
		if err != nil {
			return 1, err
		}
		defer store.Close()
		opts.Store = store
		defer logStats(logger, store)
	}
	runner := perft.NewRunner(opts)

	if *depth > 0 || *fen != "" {
		return runPosition(ctx, runner)
	}

	failed := 0
	for _, s := range cfg.Suites {
		if *suiteName != "" && s.Name != *suiteName {
			continue
		}
		rep, err := runSuite(ctx, runner, s, *maxDepth, os.Stdout)
		if err != nil {
			return 1, err
		}
		fmt.Printf("%d checked, %d failed, %d nodes in %v\n\n", rep.Checked, rep.Failed, rep.Nodes, rep.Elapsed)
		failed += rep.Failed
	}
	if failed > 0 {
		return 2, nil
	}
	return 0, nil
}

func runPosition(ctx context.Context, runner *perft.Runner) (int, error) {
	pos := *fen
	if pos == "" {
		pos = board.StartFEN
	}
	b, err := board.NewFromFEN(pos)
	if err != nil {
		return 1, err
	}

	d := *depth
	if d <= 0 {
		d = 1
	}
	res, err := runner.Run(ctx, b, d)
	if err != nil {
		return 1, err
	}

	if *divide {
		for _, c := range res.Divide {
			fmt.Printf("%s: %d\n", c.Move, c.Nodes)
		}
		fmt.Println()
	}
	fmt.Printf("Nodes: %d\n", res.Nodes)
	if !res.Cached {
		fmt.Printf("Time: %v\n", res.Elapsed)
		fmt.Printf("NPS: %.0f\n", res.NodesPerSecond())
	}
	return 0, nil
}

func logStats(logger logr.Logger, store *storage.Storage) {
	stats, err := store.LoadStats()
	if err != nil {
		logger.Error(err, "load run stats")
		return
	}
	logger.V(1).Info("run stats",
		"runs", stats.Runs,
		"stored", stats.CacheHits,
		"nodes", stats.TotalNodes,
		"nps", int64(stats.NodesPerSecond()))
}
