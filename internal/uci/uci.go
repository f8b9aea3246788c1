// Package uci implements a line protocol shell in the style of the Universal
// Chess Interface. It sets up positions and runs perft, but does no search.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/perft"
)

const (
	defaultHashMB = 16
	maxHashMB     = 1024
	// approximate bytes per subtree cache entry, map overhead included
	cacheEntryBytes = 48
)

// Options configures a Shell.
type Options struct {
	Workers    int
	Promotions board.PromotionMode
	Logger     logr.Logger
	// Store is passed to every perft run when set.
	Store perft.ResultStore
}

// Shell reads commands from an io.Reader and writes replies to an io.Writer.
type Shell struct {
	in  io.Reader
	out io.Writer
	log logr.Logger

	game *game.Game

	workers    int
	promotions board.PromotionMode
	hashMB     int
	store      perft.ResultStore
	runner     *perft.Runner
}

// New creates a shell set up in the starting position.
func New(in io.Reader, out io.Writer, opts Options) *Shell {
	s := &Shell{
		in:         in,
		out:        out,
		log:        opts.Logger,
		game:       game.New(),
		workers:    opts.Workers,
		promotions: opts.Promotions,
		hashMB:     defaultHashMB,
		store:      opts.Store,
	}
	if s.log.GetSink() == nil {
		s.log = logr.Discard()
	}
	s.rebuildRunner()
	return s
}

func (s *Shell) rebuildRunner() {
	s.runner = perft.NewRunner(perft.Options{
		Workers:    s.workers,
		Promotions: s.promotions,
		TableSize:  s.hashMB * 1024 * 1024 / cacheEntryBytes,
		Logger:     s.log.WithName("perft"),
		Store:      s.store,
	})
}

// Run processes commands until "quit", the end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]
		s.log.V(2).Info("command", "line", line)

		switch cmd {
		case "uci":
			s.handleUCI()
		case "isready":
			s.println("readyok")
		case "ucinewgame":
			s.game = game.New()
			if c := s.runner.Cache(); c != nil {
				c.Clear()
			}
		case "position":
			s.handlePosition(args)
		case "setoption":
			s.handleSetOption(args)
		case "go":
			s.handleGo(ctx, args)
		case "perft":
			s.handlePerft(ctx, args)
		case "divide":
			s.handleDivide(ctx, args)
		case "moves":
			s.handleMoves()
		case "d":
			s.handleDisplay()
		case "fen":
			s.println(s.game.FEN())
		case "quit":
			return nil
		default:
			s.printf("info string unknown command: %s\n", cmd)
		}
	}

	return scanner.Err()
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

// handleUCI responds to the "uci" command.
func (s *Shell) handleUCI() {
	s.println("id name chesscore")
	s.println("id author chesscore")
	s.println()
	s.printf("option name Hash type spin default %d min 0 max %d\n", defaultHashMB, maxHashMB)
	s.println("option name Threads type spin default 0 min 0 max 256")
	s.println("option name Promotions type combo default all var all var queen var queen-knight")
	s.println("uciok")
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (s *Shell) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var g *game.Game
	switch args[0] {
	case "startpos":
		g = game.New()
	case "fen":
		var err error
		g, err = game.NewFromFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			s.printf("info string invalid position: %v\n", err)
			return
		}
	default:
		s.printf("info string invalid position command: %s\n", args[0])
		return
	}

	if movesAt < len(args) {
		for _, mv := range args[movesAt+1:] {
			if err := g.Play(mv); err != nil {
				s.printf("info string %v\n", err)
				return
			}
		}
	}

	s.game = g
}

func (s *Shell) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value []string
	var target *[]string
	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}
	v := strings.Join(value, " ")

	switch strings.ToLower(strings.Join(name, " ")) {
	case "hash":
		mb, err := strconv.Atoi(v)
		if err != nil || mb < 0 || mb > maxHashMB {
			s.printf("info string invalid Hash value: %s\n", v)
			return
		}
		s.hashMB = mb
	case "threads":
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.printf("info string invalid Threads value: %s\n", v)
			return
		}
		s.workers = n
	case "promotions":
		mode, err := board.ParsePromotionMode(v)
		if err != nil {
			s.printf("info string %v\n", err)
			return
		}
		s.promotions = mode
	default:
		s.printf("info string unknown option: %s\n", strings.Join(name, " "))
		return
	}
	s.rebuildRunner()
}

// handleGo supports only "go perft <depth>", answered like divide.
func (s *Shell) handleGo(ctx context.Context, args []string) {
	if len(args) == 0 || args[0] != "perft" {
		s.println("info string only go perft is supported")
		return
	}
	s.handleDivide(ctx, args[1:])
}

func (s *Shell) parseDepth(args []string) (int, bool) {
	if len(args) == 0 {
		s.println("info string missing depth")
		return 0, false
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 0 {
		s.printf("info string invalid depth: %s\n", args[0])
		return 0, false
	}
	return depth, true
}

// handlePerft prints the total node count with timing.
func (s *Shell) handlePerft(ctx context.Context, args []string) {
	depth, ok := s.parseDepth(args)
	if !ok {
		return
	}

	res, err := s.runner.Run(ctx, s.game.Board(), depth)
	if err != nil {
		s.printf("info string perft failed: %v\n", err)
		return
	}

	s.printf("Nodes: %d\n", res.Nodes)
	if res.Cached {
		s.println("Cached: true")
		return
	}
	s.printf("Time: %v\n", res.Elapsed)
	s.printf("NPS: %.0f\n", res.NodesPerSecond())
}

// handleDivide prints the count below each root move, then the total.
func (s *Shell) handleDivide(ctx context.Context, args []string) {
	depth, ok := s.parseDepth(args)
	if !ok {
		return
	}

	counts, err := s.runner.Divide(ctx, s.game.Board(), depth)
	if err != nil {
		s.printf("info string divide failed: %v\n", err)
		return
	}

	for _, c := range counts {
		s.printf("%s: %d\n", c.Move, c.Nodes)
	}
	total := perft.Total(counts)
	if depth == 0 {
		total = 1
	}
	s.println()
	s.printf("Nodes searched: %d\n", total)
}

// handleMoves lists the legal moves in UCI and SAN notation.
func (s *Shell) handleMoves() {
	b := s.game.Board()
	moves := s.game.Moves()

	uci := make([]string, len(moves))
	san := make([]string, len(moves))
	for i, m := range moves {
		uci[i] = m.String()
		san[i] = board.MoveToSAN(b, m)
	}
	s.printf("moves %s\n", strings.Join(uci, " "))
	s.printf("san %s\n", strings.Join(san, " "))
}

func (s *Shell) handleDisplay() {
	s.println(s.game.Board().String())
	s.printf("Fen: %s\n", s.game.FEN())
	s.printf("In check: %v\n", s.game.InCheck())
	s.printf("Result: %s\n", s.game.Result())
}
