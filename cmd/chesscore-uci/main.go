// Command chesscore-uci runs the protocol shell on stdin and stdout.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/go-logr/stdr"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	workers    = flag.Int("workers", 0, "root moves counted in parallel (0 = GOMAXPROCS)")
	promotions = flag.String("promotions", "all", "promotion pieces to generate: all, queen or queen-knight")
	useCache   = flag.Bool("cache", false, "store and reuse perft results on disk")
	verbosity  = flag.Int("v", 0, "log verbosity")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))

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

	mode, err := board.ParsePromotionMode(*promotions)
	if err != nil {
		log.Fatal(err)
	}

	opts := uci.Options{
		Workers:    *workers,
		Promotions: mode,
		Logger:     logger,
	}
	if *useCache {
		store, err := storage.NewStorage(logger.WithName("storage"))
		if err != nil {
			log.Fatal("could not open result store: ", err)
		}
		defer store.Close()
		opts.Store = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shell := uci.New(os.Stdin, os.Stdout, opts)
	if err := shell.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error(err, "reading commands")
	}
}
