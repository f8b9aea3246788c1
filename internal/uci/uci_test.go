package uci

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chesscore/internal/board"
)

// run feeds the commands to a fresh shell and returns its output lines.
func run(t *testing.T, commands ...string) []string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(commands, "\n") + "\n")
	s := New(in, &out, Options{Workers: 2})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func TestHandshake(t *testing.T) {
	got := run(t, "uci", "isready")
	if got[0] != "id name chesscore" {
		t.Errorf("first line = %q", got[0])
	}
	if got[len(got)-2] != "uciok" || got[len(got)-1] != "readyok" {
		t.Errorf("last lines = %q", got[len(got)-2:])
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name     string
		position string
		want     string
	}{
		{
			name:     "startpos",
			position: "position startpos",
			want:     board.StartFEN,
		},
		{
			name:     "startpos with moves",
			position: "position startpos moves e2e4 c7c5 g1f3",
			want:     "rnbqkbnr/pp1ppppp/8/2p5/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2",
		},
		{
			name:     "fen",
			position: "position fen 8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
			want:     "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
		},
		{
			name:     "fen with moves",
			position: "position fen 4k3/8/8/8/8/8/4P3/4K3 w - - 0 1 moves e2e4",
			want:     "4k3/8/8/8/4P3/8/8/4K3 b - e3 0 1",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := run(t, tc.position, "fen")
			if got[len(got)-1] != tc.want {
				t.Errorf("fen = %q, want %q", got[len(got)-1], tc.want)
			}
		})
	}
}

func TestPositionErrorsKeepPosition(t *testing.T) {
	got := run(t,
		"position startpos moves e2e4",
		"position startpos moves e2e5",
		"position fen not a fen",
		"position sideways",
		"fen",
	)
	if len(got) != 4 {
		t.Fatalf("got %d lines: %q", len(got), got)
	}
	if !strings.HasPrefix(got[1], "info string invalid position:") {
		t.Errorf("bad fen reply = %q", got[1])
	}
	got[1] = ""

	want := []string{
		"info string illegal move: e2e5",
		"",
		"info string invalid position command: sideways",
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}

func TestPerft(t *testing.T) {
	got := run(t, "perft 3")
	if got[0] != "Nodes: 8902" {
		t.Errorf("first line = %q", got[0])
	}
	if !strings.HasPrefix(got[1], "Time: ") || !strings.HasPrefix(got[2], "NPS: ") {
		t.Errorf("timing lines = %q", got[1:])
	}
}

func TestDivide(t *testing.T) {
	for _, cmd := range []string{"divide 1", "go perft 1"} {
		t.Run(cmd, func(t *testing.T) {
			got := run(t, "position fen 8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", cmd)
			want := []string{
				"a4a3: 1",
				"a4a5: 1",
				"a4b3: 1",
				"a4b4: 1",
				"a4b5: 1",
				"e4e3: 1",
				"",
				"Nodes searched: 6",
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetOptionPromotions(t *testing.T) {
	const pos = "position fen 1n5k/P7/8/8/8/8/8/K7 w - - 0 1"
	tests := []struct {
		value string
		want  string
	}{
		{"all", "Nodes searched: 11"},
		{"queen", "Nodes searched: 5"},
		{"queen-knight", "Nodes searched: 7"},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			got := run(t, pos, "setoption name Promotions value "+tc.value, "divide 1")
			if got[len(got)-1] != tc.want {
				t.Errorf("last line = %q, want %q", got[len(got)-1], tc.want)
			}
		})
	}
}

func TestSetOptionErrors(t *testing.T) {
	got := run(t,
		"setoption name Promotions value rook",
		"setoption name Threads value -2",
		"setoption name Hash value lots",
		"setoption name Contempt value 10",
		"setoption name Threads value 4",
		"setoption name Hash value 0",
	)
	want := []string{
		`info string unknown promotion mode "rook"`,
		"info string invalid Threads value: -2",
		"info string invalid Hash value: lots",
		"info string unknown option: Contempt",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}

func TestMoves(t *testing.T) {
	got := run(t, "position fen 4k3/8/8/8/8/8/8/R3K3 w Q - 0 1", "moves")
	if len(got) != 2 {
		t.Fatalf("got %q", got)
	}
	for _, want := range []string{"e1c1", "a1a8"} {
		if !strings.Contains(got[0], " "+want) {
			t.Errorf("moves line %q lacks %s", got[0], want)
		}
	}
	for _, want := range []string{"O-O-O", "Ra8+"} {
		if !strings.Contains(got[1], " "+want) {
			t.Errorf("san line %q lacks %s", got[1], want)
		}
	}
}

func TestDisplayAndMisc(t *testing.T) {
	got := run(t, "position startpos moves f2f3 e7e5 g2g4 d8h4", "d", "frobnicate", "go depth 5", "perft", "perft x")
	text := strings.Join(got, "\n")
	for _, want := range []string{
		"Fen: rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
		"In check: true",
		"Result: white is mated",
		"info string unknown command: frobnicate",
		"info string only go perft is supported",
		"info string missing depth",
		"info string invalid depth: x",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output lacks %q:\n%s", want, text)
		}
	}
}

func TestQuitStopsReading(t *testing.T) {
	got := run(t, "quit", "isready")
	if len(got) != 1 || got[0] != "" {
		t.Errorf("output after quit = %q", got)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	s := New(strings.NewReader("isready\n"), &out, Options{})
	if err := s.Run(ctx); err != context.Canceled {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
	if out.Len() != 0 {
		t.Errorf("output = %q", out.String())
	}
}
