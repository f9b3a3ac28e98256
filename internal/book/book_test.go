package book

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hailam/glowfish/internal/board"
)

func TestDefaultBookStartPosition(t *testing.T) {
	bk := Default()
	if bk.Size() == 0 {
		t.Fatal("embedded book is empty")
	}
	moves := bk.Lookup(board.NewBoard().Hash())
	if len(moves) != 4 || moves[0] != board.NewMove(board.E2, board.E4) {
		t.Fatalf("start position moves = %v", moves)
	}
	t.Logf("book has %d positions", bk.Size())
}

// Positions reached by play must hash like the FEN lines in the book.
func TestDefaultBookReachedByPlay(t *testing.T) {
	pos := board.NewBoard()
	for _, s := range []string{"e2e4", "e7e5", "g1f3", "b8c6"} {
		mv, err := board.ParseMove(s)
		if err != nil {
			t.Fatal(err)
		}
		if !pos.TryPlay(mv) {
			t.Fatalf("illegal %s", s)
		}
		if len(Default().Lookup(pos.Hash())) == 0 {
			t.Errorf("position after %s not found in book: %s", s, pos.FEN())
		}
	}
}

func TestParse(t *testing.T) {
	data := `# comment

4k3/8/8/8/8/8/8/4K2R w K - 0 1|h1h8, e1d2
4k3/8/8/8/8/8/8/4K2R w K - 0 1|h1h8
`
	bk, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	pos, _ := board.ParseFEN("4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	got := bk.Lookup(pos.Hash())
	if len(got) != 2 {
		t.Errorf("Lookup = %v, want two moves without duplicates", got)
	}
	if bk.Lookup(board.NewBoard().Hash()) != nil {
		t.Error("unknown position returned moves")
	}
}

func TestParseMoveLines(t *testing.T) {
	data := "moves e2e4 e7e5 g1f3\nmoves e2e4 c7c5\n"
	bk, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if bk.Size() != 3 {
		t.Errorf("Size = %d, want 3", bk.Size())
	}
	pos := board.NewBoard()
	if got := bk.Lookup(pos.Hash()); len(got) != 1 || got[0] != board.NewMove(board.E2, board.E4) {
		t.Errorf("start position moves = %v, want [e2e4]", got)
	}
	pos.PlayUnchecked(board.NewMove(board.E2, board.E4))
	if got := bk.Lookup(pos.Hash()); len(got) != 2 || got[1] != board.NewMove(board.C7, board.C5) {
		t.Errorf("moves after e2e4 = %v, want [e7e5 c7c5]", got)
	}

	for _, bad := range []string{"moves e2e4 zz", "moves e2e4 e2e4"} {
		if _, err := Parse(strings.NewReader(bad)); err == nil || !strings.Contains(err.Error(), "line 1") {
			t.Errorf("Parse(%q) = %v, want an error naming line 1", bad, err)
		}
	}
}

// The embedded book carries main lines well past the first few moves.
func TestDefaultBookDepth(t *testing.T) {
	if n := Default().Size(); n < 150 {
		t.Errorf("embedded book has %d positions, want at least 150", n)
	}
	ruy := strings.Fields("e2e4 e7e5 g1f3 b8c6 f1b5 a7a6 b5a4 g8f6 e1g1 f8e7 f1e1 b7b5 a4b3 d7d6 c2c3 e8g8")
	pos := board.NewBoard()
	for i, s := range ruy {
		mv, err := board.ParseMove(s)
		if err != nil {
			t.Fatal(err)
		}
		if !contains(Default().Lookup(pos.Hash()), mv) {
			t.Fatalf("ply %d: %s not offered in %s", i+1, s, pos.FEN())
		}
		pos.PlayUnchecked(mv)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"no separator", board.StartFEN, nil},
		{"bad fen", "not a fen|e2e4", board.ErrInvalidFEN},
		{"bad move", board.StartFEN + "|e2", board.ErrInvalidMove},
		{"illegal move", board.StartFEN + "|e2e5", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.data))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), "line 1") {
				t.Errorf("error %q does not name the line", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("error %v, want %v", err, tc.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.txt")
	if err := os.WriteFile(path, []byte(board.StartFEN+"|d2d4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	bk, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if bk.Size() != 1 {
		t.Errorf("Size = %d, want 1", bk.Size())
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("loading a missing file succeeded")
	}
}

func TestNilBook(t *testing.T) {
	var bk *Book
	if bk.Lookup(1) != nil || bk.Size() != 0 {
		t.Error("nil book not empty")
	}
}
