package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/perft"
)

// suiteReport summarises a suite run.
type suiteReport struct {
	Checked int
	Failed  int
	Nodes   uint64
	Elapsed time.Duration
}

// runSuite checks every position of s against its expected counts up to
// maxDepth (0 means every known depth) and writes one line per check.
func runSuite(ctx context.Context, r *perft.Runner, s config.Suite, maxDepth int, w io.Writer) (suiteReport, error) {
	var rep suiteReport
	fmt.Fprintf(w, "suite %s\n", s.Name)

	for _, p := range s.Positions {
		b, err := board.NewFromFEN(p.FEN)
		if err != nil {
			return rep, fmt.Errorf("%s: %w", p.Name, err)
		}

		depths := p.MaxDepth()
		if maxDepth > 0 && maxDepth < depths {
			depths = maxDepth
		}
		for depth := 1; depth <= depths; depth++ {
			res, err := r.Run(ctx, b, depth)
			if err != nil {
				return rep, fmt.Errorf("%s depth %d: %w", p.Name, depth, err)
			}

			want := p.Expected[depth-1]
			status := "ok"
			if res.Nodes != want {
				status = "FAIL"
				rep.Failed++
			}
			rep.Checked++
			rep.Nodes += res.Nodes
			rep.Elapsed += res.Elapsed

			fmt.Fprintf(w, "  %-4s %-30s depth %d  %12d", status, p.Name, depth, res.Nodes)
			if res.Nodes != want {
				fmt.Fprintf(w, "  want %d", want)
			}
			if res.Cached {
				fmt.Fprint(w, "  (stored)")
			}
			fmt.Fprintln(w)
		}
	}
	return rep, nil
}
