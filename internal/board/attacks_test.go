package board

import "testing"

func TestLeaperAttacks(t *testing.T) {
	tests := []struct {
		name string
		got  Bitboard
		want []Square
	}{
		{"knight a1", KnightAttacks(A1), []Square{B3, C2}},
		{"knight e4", KnightAttacks(E4), []Square{D6, F6, G5, G3, F2, D2, C3, C5}},
		{"king h8", KingAttacks(H8), []Square{G8, G7, H7}},
		{"white pawn e4", PawnAttacks(E4, White), []Square{D5, F5}},
		{"black pawn a5", PawnAttacks(A5, Black), []Square{B4}},
		{"white pawn h8", PawnAttacks(H8, White), nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var want Bitboard
			for _, sq := range tc.want {
				want |= sq.Bitboard()
			}
			if tc.got != want {
				t.Errorf("got\n%vwant\n%v", tc.got, want)
			}
		})
	}
}

func TestPawnQuiets(t *testing.T) {
	tests := []struct {
		name     string
		sq       Square
		c        Color
		blockers Bitboard
		want     Bitboard
	}{
		{"double push", E2, White, Empty, E3.Bitboard() | E4.Bitboard()},
		{"single push off home rank", E3, White, Empty, E4.Bitboard()},
		{"blocked in front", E2, White, E3.Bitboard(), Empty},
		{"double blocked", E2, White, E4.Bitboard(), E3.Bitboard()},
		{"black double push", D7, Black, Empty, D6.Bitboard() | D5.Bitboard()},
		{"black blocked", D7, Black, D6.Bitboard(), Empty},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PawnQuiets(tc.sq, tc.c, tc.blockers); got != tc.want {
				t.Errorf("got\n%vwant\n%v", got, tc.want)
			}
		})
	}
}

func TestRays(t *testing.T) {
	for sq := A1; sq <= H8; sq++ {
		if n := RookRays(sq).PopCount(); n != 14 {
			t.Errorf("RookRays(%s) has %d squares, want 14", sq, n)
		}
		if RookRays(sq).Has(sq) || BishopRays(sq).Has(sq) {
			t.Errorf("rays of %s contain the origin", sq)
		}
		if RookMoves(sq, Empty) != RookRays(sq) || BishopMoves(sq, Empty) != BishopRays(sq) {
			t.Errorf("empty-board sliders from %s differ from rays", sq)
		}
	}
	if BishopRays(A1).PopCount() != 7 || BishopRays(D4).PopCount() != 13 {
		t.Error("bishop ray sizes wrong")
	}
}

func TestSlidingMovesStopAtBlocker(t *testing.T) {
	// Rook on d4, blockers on d6 and f4: d6 and f4 are included, d7 and g4 are not.
	blockers := D6.Bitboard() | F4.Bitboard()
	got := RookMoves(D4, blockers)
	for _, sq := range []Square{D5, D6, E4, F4, D1, A4} {
		if !got.Has(sq) {
			t.Errorf("RookMoves missing %s", sq)
		}
	}
	for _, sq := range []Square{D7, G4, D4} {
		if got.Has(sq) {
			t.Errorf("RookMoves contains %s", sq)
		}
	}
	// A blocker on the origin itself is ignored.
	if RookMoves(D4, blockers|D4.Bitboard()) != got {
		t.Error("origin in blockers changed the result")
	}
}

func TestBetweenAndLine(t *testing.T) {
	if got := Between(A1, D4); got != B2.Bitboard()|C3.Bitboard() {
		t.Errorf("Between(a1, d4) =\n%v", got)
	}
	if got := Between(E1, E8); got.PopCount() != 6 || !got.Has(E4) {
		t.Errorf("Between(e1, e8) =\n%v", got)
	}
	if Between(A1, B3) != Empty || Between(E4, E5) != Empty || Between(C3, C3) != Empty {
		t.Error("Between of unaligned, adjacent or equal squares not empty")
	}
	if got := Line(B2, C3); got.PopCount() != 8 || !got.Has(A1) || !got.Has(H8) {
		t.Errorf("Line(b2, c3) =\n%v", got)
	}
	if Line(A1, B3) != Empty {
		t.Error("Line of unaligned squares not empty")
	}
	for a := A1; a <= H8; a++ {
		for b := A1; b <= H8; b++ {
			if Between(a, b) != Between(b, a) || Line(a, b) != Line(b, a) {
				t.Fatalf("tables not symmetric for %s, %s", a, b)
			}
			if Between(a, b)&^Line(a, b) != 0 {
				t.Fatalf("Between(%s, %s) leaves Line", a, b)
			}
		}
	}
	if !Aligned(A1, H8, D4) || Aligned(A1, H8, D5) {
		t.Error("Aligned wrong")
	}
}

func squares(sqs ...Square) Bitboard {
	var b Bitboard
	for _, sq := range sqs {
		b |= sq.Bitboard()
	}
	return b
}

func TestRaysAlongRanksAndDiagonals(t *testing.T) {
	if got, want := Between(B4, G4), squares(C4, D4, E4, F4); got != want {
		t.Errorf("Between(b4, g4) =\n%vwant\n%v", got, want)
	}
	if got, want := Line(D2, G5), squares(C1, D2, E3, F4, G5, H6); got != want {
		t.Errorf("Line(d2, g5) =\n%vwant\n%v", got, want)
	}
}

func TestRookMovesBlockedFile(t *testing.T) {
	got := RookMoves(D3, D5.Bitboard())
	for _, sq := range []Square{D4, D5, D2, D1, A3, H3} {
		if !got.Has(sq) {
			t.Errorf("RookMoves(d3) missing %s", sq)
		}
	}
	for _, sq := range []Square{D6, D7, D8, D3} {
		if got.Has(sq) {
			t.Errorf("RookMoves(d3) contains %s", sq)
		}
	}
	if n := got.PopCount(); n != 11 {
		t.Errorf("RookMoves(d3) with d5 blocked has %d squares, want 11", n)
	}
	if n := RookMoves(D3, Empty).PopCount(); n != 14 {
		t.Errorf("RookMoves(d3) on an empty board has %d squares, want 14", n)
	}
}
