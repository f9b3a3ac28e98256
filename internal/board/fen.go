package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is returned for malformed or impossible FEN strings.
var ErrInvalidFEN = errors.New("invalid FEN")

// ParseFEN parses a FEN string. The clock fields are optional.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 || len(parts) > 6 {
		return nil, fmt.Errorf("%w: need 4 to 6 fields, got %d", ErrInvalidFEN, len(parts))
	}

	b := &Board{
		enPassant:      NoSquare,
		fullmoveNumber: 1,
	}

	if err := b.parsePiecePlacement(parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return nil, fmt.Errorf("%w: invalid side to move: %s", ErrInvalidFEN, parts[1])
	}

	if err := b.parseCastlingRights(parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil || sq.Rank() != Rank6.RelativeTo(b.sideToMove) {
			return nil, fmt.Errorf("%w: invalid en passant square: %s", ErrInvalidFEN, parts[3])
		}
		// Keep the square only if a pawn really just double-pushed past it.
		pusher := NewSquare(sq.File(), Rank5.RelativeTo(b.sideToMove))
		if b.ColoredPieces(b.sideToMove.Other(), Pawn).Has(pusher) && !b.Occupied().Has(sq) {
			b.enPassant = sq
		}
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return nil, fmt.Errorf("%w: invalid half-move clock: %s", ErrInvalidFEN, parts[4])
		}
		b.halfmoveClock = hmc
	}
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, fmt.Errorf("%w: invalid full-move number: %s", ErrInvalidFEN, parts[5])
		}
		b.fullmoveNumber = fmn
	}

	if err := b.validate(); err != nil {
		return nil, err
	}
	b.hash = b.computeHash()
	b.updateCheckersAndPins()
	return b, nil
}

func (b *Board) parsePiecePlacement(placement string) error {
	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(rows))
	}

	for i, row := range rows {
		r := Rank8 - Rank(i) // FEN starts from rank 8
		f := 0
		for _, ch := range []byte(row) {
			if f > 7 {
				return fmt.Errorf("%w: too many squares in rank %s", ErrInvalidFEN, r)
			}
			if ch >= '1' && ch <= '8' {
				f += int(ch - '0')
				continue
			}
			pt, c, ok := PieceFromChar(ch)
			if !ok {
				return fmt.Errorf("%w: invalid piece character: %c", ErrInvalidFEN, ch)
			}
			b.put(pt, c, NewSquare(File(f), r))
			f++
		}
		if f != 8 {
			return fmt.Errorf("%w: invalid number of squares in rank %s: got %d", ErrInvalidFEN, r, f)
		}
	}
	return nil
}

func (b *Board) parseCastlingRights(castling string) error {
	if castling == "-" {
		return nil
	}
	for _, ch := range castling {
		switch ch {
		case 'K':
			b.castling |= WhiteKingSideCastle
		case 'Q':
			b.castling |= WhiteQueenSideCastle
		case 'k':
			b.castling |= BlackKingSideCastle
		case 'q':
			b.castling |= BlackQueenSideCastle
		default:
			return fmt.Errorf("%w: invalid castling character: %c", ErrInvalidFEN, ch)
		}
	}

	// Drop rights whose king or rook is not on its home square.
	rooks := func(c Color) Bitboard { return b.ColoredPieces(c, Rook) }
	kings := func(c Color) Bitboard { return b.ColoredPieces(c, King) }
	if !kings(White).Has(E1) || !rooks(White).Has(H1) {
		b.castling &^= WhiteKingSideCastle
	}
	if !kings(White).Has(E1) || !rooks(White).Has(A1) {
		b.castling &^= WhiteQueenSideCastle
	}
	if !kings(Black).Has(E8) || !rooks(Black).Has(H8) {
		b.castling &^= BlackKingSideCastle
	}
	if !kings(Black).Has(E8) || !rooks(Black).Has(A8) {
		b.castling &^= BlackQueenSideCastle
	}
	return nil
}

func (b *Board) validate() error {
	if b.ColoredPieces(White, King).PopCount() != 1 {
		return fmt.Errorf("%w: white must have exactly one king", ErrInvalidFEN)
	}
	if b.ColoredPieces(Black, King).PopCount() != 1 {
		return fmt.Errorf("%w: black must have exactly one king", ErrInvalidFEN)
	}
	if b.pieces[Pawn]&(Rank1.Bitboard()|Rank8.Bitboard()) != 0 {
		return fmt.Errorf("%w: pawns cannot be on rank 1 or 8", ErrInvalidFEN)
	}
	them := b.sideToMove.Other()
	if b.IsAttacked(b.King(them), b.sideToMove) {
		return fmt.Errorf("%w: side not to move is in check", ErrInvalidFEN)
	}
	return nil
}

// FEN returns the FEN representation of the position.
func (b *Board) FEN() string {
	var sb strings.Builder

	for r := Rank8; ; r-- {
		empty := 0
		for f := FileA; f <= FileH; f++ {
			sq := NewSquare(f, r)
			pt := b.PieceOn(sq)
			if pt == NoPieceType {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			c, _ := b.ColorOn(sq)
			sb.WriteByte(pt.Char(c))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r == Rank1 {
			break
		}
		sb.WriteByte('/')
	}

	sb.WriteByte(' ')
	if b.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	sb.WriteString(b.castling.String())
	sb.WriteByte(' ')
	sb.WriteString(b.enPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullmoveNumber))
	return sb.String()
}
