package uci

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hailam/glowfish/internal/book"
	"github.com/hailam/glowfish/internal/engine"
)

// run feeds script to a fresh handler and returns stdout and stderr.
func run(t *testing.T, script string) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	u := New(engine.NewEngine(book.Default()), strings.NewReader(script), &out)
	u.errOut = &errOut
	u.SetSeed(1)
	if err := u.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String(), errOut.String()
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func bestMove(t *testing.T, out string) string {
	t.Helper()
	for _, l := range lines(out) {
		if mv, ok := strings.CutPrefix(l, "bestmove "); ok {
			return mv
		}
	}
	t.Fatalf("no bestmove in output:\n%s", out)
	return ""
}

func TestHandshake(t *testing.T) {
	out, _ := run(t, "uci\nisready\nquit\n")
	ls := lines(out)
	if ls[0] != "id name Glowfish" {
		t.Errorf("first line = %q", ls[0])
	}
	if !strings.Contains(out, "option name Depth type spin default 2 min 1 max 8") {
		t.Errorf("missing Depth option:\n%s", out)
	}
	if !strings.Contains(out, "uciok\nreadyok\n") {
		t.Errorf("expected uciok then readyok:\n%s", out)
	}
}

func TestGo(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{
			name:   "mate in one",
			script: "position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1\ngo depth 2\n",
			want:   "a1a8",
		},
		{
			name:   "mated side",
			script: "position fen rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3\ngo\n",
			want:   "0000",
		},
		{
			name:   "fools mate by moves",
			script: "position startpos moves f2f3 e7e5 g2g4\nsetoption name OwnBook value false\ngo depth 2\n",
			want:   "d8h4",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, _ := run(t, tc.script+"quit\n")
			if got := bestMove(t, out); got != tc.want {
				t.Errorf("bestmove %s, want %s\n%s", got, tc.want, out)
			}
		})
	}
}

func TestGoInfo(t *testing.T) {
	out, _ := run(t, "position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1\ngo depth 2\nquit\n")
	if !strings.Contains(out, "info depth 2 score mate 1 ") {
		t.Errorf("missing search info:\n%s", out)
	}
	if !strings.Contains(out, " pv a1a8") {
		t.Errorf("missing pv:\n%s", out)
	}
}

func TestBookMove(t *testing.T) {
	candidates := book.Default().Lookup(New(nil, nil, nil).game.Board().Hash())
	if len(candidates) == 0 {
		t.Fatal("start position missing from book")
	}

	out, _ := run(t, "ucinewgame\nposition startpos\ngo\nquit\n")
	if !strings.Contains(out, "info string book move ") {
		t.Errorf("expected a book move:\n%s", out)
	}
	mv := bestMove(t, out)
	found := false
	for _, c := range candidates {
		if c.String() == mv {
			found = true
		}
	}
	if !found {
		t.Errorf("bestmove %s is not a book candidate %v", mv, candidates)
	}

	out, _ = run(t, "setoption name OwnBook value false\nposition startpos\ngo depth 1\nquit\n")
	if strings.Contains(out, "book move") {
		t.Errorf("book used with OwnBook false:\n%s", out)
	}
}

func TestInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr string
	}{
		{"illegal move", "position startpos moves e2e5\n", "Invalid move: e2e5"},
		{"malformed move", "position startpos moves zz\n", "Invalid move: zz"},
		{"bad fen", "position fen not a fen\n", "Invalid FEN"},
		{"bad depth", "setoption name Depth value 99\n", "Depth must be 1..8"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, errOut := run(t, tc.script+"quit\n")
			if !strings.Contains(errOut, tc.wantErr) {
				t.Errorf("stderr = %q, want %q", errOut, tc.wantErr)
			}
		})
	}
}

func TestMovesAfterIllegalDropped(t *testing.T) {
	out, _ := run(t, "position startpos moves e2e4 e2e4 e7e5\nd\nquit\n")
	want := "Fen: rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	if !strings.Contains(out, want) {
		t.Errorf("expected %q in:\n%s", want, out)
	}
}

func TestPositionPastUnclaimedDraw(t *testing.T) {
	cycle := " g1f3 g8f6 f3g1 f6g8"
	shuffle := "position startpos moves" + cycle + cycle + cycle

	out, errOut := run(t, shuffle+" e2e4\nd\nsetoption name OwnBook value false\ngo depth 1\nquit\n")
	if errOut != "" {
		t.Errorf("unexpected diagnostics: %s", errOut)
	}
	want := "Fen: rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 7"
	if !strings.Contains(out, want) {
		t.Errorf("expected %q in:\n%s", want, out)
	}
	if mv := bestMove(t, out); mv == "0000" {
		t.Errorf("no move after the replayed shuffle:\n%s", out)
	}

	// The current position itself is a fourfold repetition.
	out, _ = run(t, shuffle+"\nsetoption name OwnBook value false\ngo depth 2\nquit\n")
	if mv := bestMove(t, out); mv == "0000" {
		t.Errorf("no move in a repeated position:\n%s", out)
	}
}

func TestDisplay(t *testing.T) {
	out, _ := run(t, "position fen rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3\nd\nquit\n")
	for _, want := range []string{"Fen: rnb1kbnr/", "Key: ", "Status: won (checkmate)"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPerft(t *testing.T) {
	tests := []struct {
		depth string
		nodes string
	}{
		{"0", "Nodes: 1"},
		{"1", "Nodes: 20"},
		{"3", "Nodes: 8902"},
	}

	for _, tc := range tests {
		t.Run("depth "+tc.depth, func(t *testing.T) {
			out, _ := run(t, "position startpos\nperft "+tc.depth+"\nquit\n")
			if !strings.Contains(out, tc.nodes+"\n") {
				t.Errorf("expected %q in:\n%s", tc.nodes, out)
			}
		})
	}

	out, _ := run(t, "perft 1\nquit\n")
	if !strings.Contains(out, "e2e4: 1\n") {
		t.Errorf("missing divide line:\n%s", out)
	}
}

func TestParseGoOptions(t *testing.T) {
	tests := []struct {
		args []string
		want int
	}{
		{nil, 0},
		{[]string{"depth", "4"}, 4},
		{[]string{"wtime", "1000", "btime", "1000", "depth", "3"}, 3},
		{[]string{"movetime", "500"}, 0},
	}
	for _, tc := range tests {
		if got := parseGoOptions(tc.args).Depth; got != tc.want {
			t.Errorf("parseGoOptions(%v).Depth = %d, want %d", tc.args, got, tc.want)
		}
	}
}
