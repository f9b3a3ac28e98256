package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// AllPieceTypes lists the piece types from least to most valuable.
var AllPieceTypes = [6]PieceType{Pawn, Knight, Bishop, Rook, Queen, King}

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece type: uppercase for
// White, lowercase for Black.
func (pt PieceType) Char(c Color) byte {
	if pt >= NoPieceType {
		return ' '
	}
	ch := "pnbrqk"[pt]
	if c == White {
		ch -= 'a' - 'A'
	}
	return ch
}

// PieceFromChar converts a FEN character to a piece type and color.
func PieceFromChar(ch byte) (PieceType, Color, bool) {
	c := White
	if ch >= 'a' && ch <= 'z' {
		c = Black
		ch -= 'a' - 'A'
	}
	switch ch {
	case 'P':
		return Pawn, c, true
	case 'N':
		return Knight, c, true
	case 'B':
		return Bishop, c, true
	case 'R':
		return Rook, c, true
	case 'Q':
		return Queen, c, true
	case 'K':
		return King, c, true
	}
	return NoPieceType, c, false
}

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSideCastle != 0
		}
		return cr&WhiteQueenSideCastle != 0
	}
	if kingSide {
		return cr&BlackKingSideCastle != 0
	}
	return cr&BlackQueenSideCastle != 0
}

// castlingMask[sq] holds the rights lost when a piece moves from or to sq.
var castlingMask = [64]CastlingRights{
	A1: WhiteQueenSideCastle,
	E1: WhiteKingSideCastle | WhiteQueenSideCastle,
	H1: WhiteKingSideCastle,
	A8: BlackQueenSideCastle,
	E8: BlackKingSideCastle | BlackQueenSideCastle,
	H8: BlackKingSideCastle,
}

// GameStatus is the rules outcome of a position.
type GameStatus uint8

const (
	// Ongoing means the side to move has a legal move.
	Ongoing GameStatus = iota
	// Won means the side that just moved has won: the side to move is mated.
	Won
	// Drawn covers stalemate, the fifty-move rule and, at game level,
	// repetition and insufficient material.
	Drawn
)

func (s GameStatus) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Won:
		return "won"
	case Drawn:
		return "drawn"
	}
	return "unknown"
}
