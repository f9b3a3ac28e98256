package board

import (
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want GameStatus
	}{
		// Back rank mate: g7 and h7 block the escape.
		{"back rank mate", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", Won},
		// The king can capture the unprotected rook.
		{"king takes rook", "6Rk/8/8/8/8/8/8/K7 b - - 0 1", Ongoing},
		{"fools mate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", Won},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", Drawn},
		{"fifty moves", "7k/8/6K1/8/8/8/8/R7 b - - 100 80", Drawn},
		{"start", StartFEN, Ongoing},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatal("Error parsing FEN:", err)
			}
			if got := b.Status(); got != tc.want {
				t.Log(b)
				t.Errorf("Status() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestCheckersAndPins(t *testing.T) {
	// White king e1, black rook e8 checks down the open file; the white
	// bishop on d2 is pinned by the black bishop on a5.
	b, err := ParseFEN("4r1k1/8/8/b7/8/8/3B4/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if b.Checkers() != E8.Bitboard() {
		t.Errorf("Checkers = %v, want e8", b.Checkers())
	}
	if b.Pinned() != D2.Bitboard() {
		t.Errorf("Pinned = %v, want d2", b.Pinned())
	}
	for mv := range b.LegalMoves() {
		if mv.From == D2 {
			t.Errorf("pinned bishop moved: %v", mv)
		}
	}
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	// Knight f3 and rook e8 both give check.
	b, err := ParseFEN("4r1k1/8/8/8/8/5n2/3Q4/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if b.Checkers().PopCount() != 2 {
		t.Fatalf("expected double check, checkers = %v", b.Checkers())
	}
	for pm := range b.MoveSets() {
		if pm.Piece != King {
			t.Errorf("non-king move set in double check: %+v", pm)
		}
	}
}

func TestCastling(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		mv   Move
		want bool
	}{
		{"kingside", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", NewMove(E1, G1), true},
		{"queenside", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", NewMove(E1, C1), true},
		{"no right", "r3k2r/8/8/8/8/8/8/R3K2R w Qkq - 0 1", NewMove(E1, G1), false},
		{"through check", "r3kr2/8/8/8/8/8/8/R3K2R w KQq - 0 1", NewMove(E1, G1), false},
		{"blocked", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", NewMove(E1, C1), false},
		{"b1 attacked is fine", "1r2k2r/8/8/8/8/8/8/R3K2R w KQk - 0 1", NewMove(E1, C1), true},
		{"black kingside", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", NewMove(E8, G8), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}
			if got := b.IsLegal(tc.mv); got != tc.want {
				t.Errorf("IsLegal(%v) = %v, want %v", tc.mv, got, tc.want)
			}
		})
	}
}

func TestCastlingMovesRook(t *testing.T) {
	b, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	b.PlayUnchecked(NewMove(E1, G1))
	if b.PieceOn(F1) != Rook || b.PieceOn(H1) != NoPieceType || b.PieceOn(G1) != King {
		t.Errorf("bad castle result:%s", b)
	}
	if b.CastlingRights() != BlackKingSideCastle|BlackQueenSideCastle {
		t.Errorf("castling rights = %s, want kq", b.CastlingRights())
	}
}

func TestPromotionMoves(t *testing.T) {
	b, err := ParseFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var got []Move
	for pm := range b.MoveSetsFor(A7.Bitboard()) {
		if pm.Len() != 4 {
			t.Errorf("Len() = %d, want 4", pm.Len())
		}
		for mv := range pm.Moves() {
			got = append(got, mv)
		}
	}
	want := []Move{
		NewPromotion(A7, A8, Queen), NewPromotion(A7, A8, Knight),
		NewPromotion(A7, A8, Rook), NewPromotion(A7, A8, Bishop),
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("move %d = %v, want %v", i, got[i], want[i])
		}
	}
	if b.IsLegal(NewMove(A7, A8)) {
		t.Error("push to the last rank without promotion piece accepted")
	}
	if !b.TryPlay(NewPromotion(A7, A8, Knight)) || b.PieceOn(A8) != Knight {
		t.Error("underpromotion failed")
	}
}

func TestTryPlayRejectsIllegal(t *testing.T) {
	b := NewBoard()
	before := *b
	for _, mv := range []Move{NewMove(E2, E5), NewMove(E7, E5), NewMove(A1, A3), {From: E2, To: E4}} {
		if b.TryPlay(mv) {
			t.Errorf("TryPlay(%v) accepted", mv)
		}
	}
	if *b != before {
		t.Error("board changed after rejected moves")
	}
}
