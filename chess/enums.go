package chess

import "fmt"

// Color identifies the side to move or the owner of a piece.
type Color int8

const (
	White Color = iota
	Black
)

// Opposite returns the other color.
func (c Color) Opposite() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

// File is a board file, A through H.
type File int8

const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

// Rank is a board rank, 1 through 8.
type Rank int8

const (
	Rank1 Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

// Square is a board square, a1..h8, or NoSquare.
//
// index = file + 8*rank, matching goosemg/board.go's Square layout
// (a1=0, h8=63).
type Square int8

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare
)

// NewSquare builds a square from a file and rank.
func NewSquare(f File, r Rank) Square {
	return Square(int8(r)*8 + int8(f))
}

// File returns the file of sq.
func (sq Square) File() File { return File(int8(sq) % 8) }

// Rank returns the rank of sq.
func (sq Square) Rank() Rank { return Rank(int8(sq) / 8) }

func (sq Square) String() string {
	if sq == NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+byte(sq.File()), '1'+byte(sq.Rank()))
}

// PieceType identifies a kind of chess piece independent of color.
type PieceType int8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

// Piece identifies a colored chess piece.
//
// index = color*6 + piece_type.
type Piece int8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	NoPiece
)

// MakePiece builds a Piece from a color and piece type.
func MakePiece(c Color, pt PieceType) Piece {
	return Piece(int8(c)*6 + int8(pt))
}

// Color returns the color of p. Undefined for NoPiece.
func (p Piece) Color() Color { return Color(int8(p) / 6) }

// Type returns the piece type of p. Undefined for NoPiece.
func (p Piece) Type() PieceType { return PieceType(int8(p) % 6) }

var pieceLetters = [12]byte{'P', 'N', 'B', 'R', 'Q', 'K', 'p', 'n', 'b', 'r', 'q', 'k'}

func (p Piece) String() string {
	if p == NoPiece {
		return "."
	}
	return string(pieceLetters[p])
}

// PieceFromLetter maps a FEN piece letter to a Piece. ok is false for
// any byte that isn't one of PNBRQKpnbrqk.
func PieceFromLetter(c byte) (Piece, bool) {
	for i, l := range pieceLetters {
		if l == c {
			return Piece(i), true
		}
	}
	return NoPiece, false
}

// CastleSide is kingside or queenside castling.
type CastleSide int8

const (
	CastleKing CastleSide = iota
	CastleQueen
)

// Opposite returns the other castle side.
func (cs CastleSide) Opposite() CastleSide { return cs ^ 1 }

// CastleRights is a 4-bit mask over {white-king, white-queen,
// black-king, black-queen} castling privileges.
type CastleRights uint8

const (
	NoCastleRights CastleRights = 0
	WhiteKingside  CastleRights = 1 << 0
	WhiteQueenside CastleRights = 1 << 1
	BlackKingside  CastleRights = 1 << 2
	BlackQueenside CastleRights = 1 << 3
	AllCastleRights CastleRights = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

// CastleBit returns the CastleRights bit for (color, side).
func CastleBit(c Color, side CastleSide) CastleRights {
	shift := uint8(c)*2 + uint8(side)
	return CastleRights(1 << shift)
}

// Has reports whether cr grants the given bit.
func (cr CastleRights) Has(bit CastleRights) bool { return cr&bit != 0 }

// Direction is a signed delta applied to a Square index.
type Direction int8

const (
	DirN  Direction = 8
	DirE  Direction = 1
	DirS  Direction = -DirN
	DirW  Direction = -DirE
	DirNE Direction = DirN + DirE
	DirSE Direction = DirS + DirE
	DirSW Direction = DirS + DirW
	DirNW Direction = DirN + DirW

	DirNNE Direction = DirNE + DirN
	DirNEE Direction = DirNE + DirE
	DirSEE Direction = DirSE + DirE
	DirSSE Direction = DirSE + DirS
	DirSSW Direction = DirSW + DirS
	DirSWW Direction = DirSW + DirW
	DirNWW Direction = DirNW + DirW
	DirNNW Direction = DirNW + DirN
)

// FlipType is a bitboard mirroring axis.
type FlipType int8

const (
	FlipVertical FlipType = iota
	FlipHorizontal
	FlipDiagonal
	FlipAntiDiagonal
)
