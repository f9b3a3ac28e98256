package board

import (
	"errors"
	"testing"
)

func TestSquareEncoding(t *testing.T) {
	seen := make(map[Square]bool)
	for f := FileA; f <= FileH; f++ {
		for r := Rank1; r <= Rank8; r++ {
			sq := NewSquare(f, r)
			if sq.File() != f || sq.Rank() != r {
				t.Errorf("NewSquare(%s, %s) round trip = (%s, %s)", f, r, sq.File(), sq.Rank())
			}
			if seen[sq] {
				t.Errorf("NewSquare(%s, %s) = %d collides", f, r, sq)
			}
			seen[sq] = true
		}
	}
	if E4 != NewSquare(FileE, Rank4) || E4 != 28 {
		t.Errorf("E4 = %d, want 28", E4)
	}
}

func TestTryOffset(t *testing.T) {
	tests := []struct {
		sq     Square
		df, dr int
		want   Square
		ok     bool
	}{
		{E4, 1, 2, F6, true},
		{A1, -1, 0, NoSquare, false},
		{H4, 1, 0, NoSquare, false}, // no wrap to a5
		{A8, 0, 1, NoSquare, false},
		{H8, -7, -7, A1, true},
		{B1, -2, 1, NoSquare, false},
	}
	for _, tc := range tests {
		got, ok := tc.sq.TryOffset(tc.df, tc.dr)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("%s.TryOffset(%d, %d) = (%s, %v), want (%s, %v)", tc.sq, tc.df, tc.dr, got, ok, tc.want, tc.ok)
		}
	}
}

func TestOffsetPanicsOffBoard(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Offset off the board did not panic")
		}
	}()
	H1.Offset(1, 0)
}

func TestFlips(t *testing.T) {
	for sq := A1; sq <= H8; sq++ {
		if sq.FlipFile().FlipFile() != sq || sq.FlipRank().FlipRank() != sq {
			t.Errorf("flip of %s is not an involution", sq)
		}
		if sq.FlipFile().File() != sq.File().Flip() || sq.FlipFile().Rank() != sq.Rank() {
			t.Errorf("%s.FlipFile() = %s", sq, sq.FlipFile())
		}
		if sq.FlipRank().Rank() != sq.Rank().Flip() || sq.FlipRank().File() != sq.File() {
			t.Errorf("%s.FlipRank() = %s", sq, sq.FlipRank())
		}
	}
	if A1.FlipFile() != H1 || A1.FlipRank() != A8 {
		t.Error("corner flips wrong")
	}
	if Rank2.RelativeTo(Black) != Rank7 || Rank2.RelativeTo(White) != Rank2 {
		t.Error("RelativeTo wrong")
	}
}

func TestParseSquare(t *testing.T) {
	for sq := A1; sq <= H8; sq++ {
		got, err := ParseSquare(sq.String())
		if err != nil || got != sq {
			t.Errorf("ParseSquare(%q) = %s, %v", sq.String(), got, err)
		}
	}
	for _, s := range []string{"", "e", "i1", "a9", "a0", "e44", "E4"} {
		if _, err := ParseSquare(s); !errors.Is(err, ErrInvalidSquare) {
			t.Errorf("ParseSquare(%q) error = %v, want ErrInvalidSquare", s, err)
		}
	}
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		in   string
		want Move
	}{
		{"e2e4", NewMove(E2, E4)},
		{"e1g1", NewMove(E1, G1)},
		{"a7a8q", NewPromotion(A7, A8, Queen)},
		{"b2b1n", NewPromotion(B2, B1, Knight)},
	}
	for _, tc := range tests {
		got, err := ParseMove(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseMove(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if got.String() != tc.in {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), tc.in)
		}
	}
	for _, s := range []string{"", "e2", "e2e9", "e7e8k", "e7e8p", "e2e4qq", "zz11"} {
		if _, err := ParseMove(s); !errors.Is(err, ErrInvalidMove) {
			t.Errorf("ParseMove(%q) error = %v, want ErrInvalidMove", s, err)
		}
	}
}

func TestBitboardSquares(t *testing.T) {
	bb := A1.Bitboard() | E4.Bitboard() | H8.Bitboard()
	var got []Square
	for sq := range bb.Squares() {
		got = append(got, sq)
	}
	if len(got) != 3 || got[0] != A1 || got[1] != E4 || got[2] != H8 {
		t.Errorf("Squares() = %v", got)
	}
	// Restartable.
	n := 0
	for range bb.Squares() {
		n++
	}
	if n != bb.PopCount() {
		t.Errorf("second pass yielded %d squares, want %d", n, bb.PopCount())
	}
	if !bb.Has(E4) || bb.Has(E5) || bb.Without(E4).Has(E4) || !Empty.With(C3).Has(C3) {
		t.Error("membership helpers wrong")
	}
}
