// Package engine picks moves: a static evaluator, a fixed-depth negamax
// search with quiescence, and an opening book in front of both.
package engine

import (
	"github.com/hailam/glowfish/internal/board"
)

// EvalFunc scores a position from the side to move's point of view.
type EvalFunc func(b *board.Board) int16

// maxPhase is the phase of the starting material: N/B = 1, R = 2, Q = 4.
const maxPhase = 24

var phaseWeight = [6]int{0, 1, 1, 2, 4, 0} // Pawn, Knight, Bishop, Rook, Queen, King

var pieceValues = [6]PhasedEval{
	{100, 120}, // Pawn
	{320, 290}, // Knight
	{330, 310}, // Bishop
	{500, 540}, // Rook
	{900, 950}, // Queen
	{0, 0},     // King
}

var bishopPairBonus = PhasedEval{25, 50}

// Tempo bonus - small advantage for having the move
const tempoBonus = 10

// Piece-square tables from White's side, rank 8 first. A white piece on
// sq reads index sq.FlipRank(); a black piece reads index sq.

var pawnPST = [64]int16{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int16{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int16{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int16{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int16{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

// King PST (middlegame) - encourages castling
var kingMidgamePST = [64]int16{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

// King PST (endgame) - the king belongs in the center
var kingEndgamePST = [64]int16{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// pst[pt][i] is material plus placement, indexed as described above.
var pst [6][64]PhasedEval

func init() {
	flat := [5]*[64]int16{&pawnPST, &knightPST, &bishopPST, &rookPST, &queenPST}
	for i := 0; i < 64; i++ {
		for pt, table := range flat {
			pst[pt][i] = pieceValues[pt].Add(Phased(table[i], table[i]))
		}
		pst[board.King][i] = Phased(kingMidgamePST[i], kingEndgamePST[i])
	}
}

// Evaluate is the default evaluator: tapered material and piece-square
// tables plus a bishop pair bonus.
func Evaluate(b *board.Board) int16 {
	var score PhasedEval
	phase := 0

	for _, pt := range board.AllPieceTypes {
		for sq := range b.ColoredPieces(board.White, pt).Squares() {
			score = score.Add(pst[pt][sq.FlipRank()])
			phase += phaseWeight[pt]
		}
		for sq := range b.ColoredPieces(board.Black, pt).Squares() {
			score = score.Sub(pst[pt][sq])
			phase += phaseWeight[pt]
		}
	}

	if b.ColoredPieces(board.White, board.Bishop).PopCount() >= 2 {
		score = score.Add(bishopPairBonus)
	}
	if b.ColoredPieces(board.Black, board.Bishop).PopCount() >= 2 {
		score = score.Sub(bishopPairBonus)
	}

	s := score.Blend(phase)
	if b.SideToMove() == board.Black {
		s = -s
	}
	return s + tempoBonus
}
