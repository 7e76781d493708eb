package chess

import "fmt"

// MoveFlag is the 4-bit move-kind tag packed into a Move's high
// nibble.
//
// Grounded on original_source/include/mpham_chess/move.hpp's exact
// flag taxonomy and bit values.
type MoveFlag uint16

const (
	FlagQuiet             MoveFlag = 0b0000
	FlagDoublePawnPush    MoveFlag = 0b0001
	FlagKingCastle        MoveFlag = 0b0010
	FlagQueenCastle       MoveFlag = 0b0011
	FlagCapture           MoveFlag = 0b0100
	FlagEnPassant         MoveFlag = 0b0101
	flagInvalid1          MoveFlag = 0b0110
	flagInvalid2          MoveFlag = 0b0111
	FlagPromoteKnight     MoveFlag = 0b1000
	FlagPromoteBishop     MoveFlag = 0b1001
	FlagPromoteRook       MoveFlag = 0b1010
	FlagPromoteQueen      MoveFlag = 0b1011
	FlagPromoteKnightCap  MoveFlag = 0b1100
	FlagPromoteBishopCap  MoveFlag = 0b1101
	FlagPromoteRookCap    MoveFlag = 0b1110
	FlagPromoteQueenCap   MoveFlag = 0b1111
)

const (
	moveFromShift  = 0
	moveToShift    = 6
	moveFlagsShift = 12

	moveFromMask  uint16 = 0b111111 << moveFromShift
	moveToMask    uint16 = 0b111111 << moveToShift
	moveFlagsMask uint16 = 0b1111 << moveFlagsShift

	moveCaptureBit  uint16 = 1 << 14
	movePromoteBit  uint16 = 1 << 15
)

// Move is a 16-bit packed chess move: bits 0-5 from-square, bits 6-11
// to-square, bits 12-15 flags.
//
// Castling: to-square holds the rook's origin square, not the king's
// destination — required so Chess960 layouts where king and rook
// start adjacent remain representable. See Position.Apply for the
// resolution into actual king/rook destinations.
type Move uint16

// NewMove packs a move from its components.
func NewMove(from, to Square, flags MoveFlag) Move {
	return Move(uint16(from)<<moveFromShift | uint16(to)<<moveToShift | uint16(flags)<<moveFlagsShift)
}

// NoMove is the zero move, used as a sentinel (a1a1 quiet).
const NoMove Move = 0

// From returns the move's origin square.
func (m Move) From() Square { return Square((uint16(m) & moveFromMask) >> moveFromShift) }

// To returns the move's to-square (rook origin, for castling).
func (m Move) To() Square { return Square((uint16(m) & moveToMask) >> moveToShift) }

// Flags returns the move's 4-bit flag tag.
func (m Move) Flags() MoveFlag { return MoveFlag((uint16(m) & moveFlagsMask) >> moveFlagsShift) }

// IsCapture reports whether the move captures a piece (bit 14).
func (m Move) IsCapture() bool { return uint16(m)&moveCaptureBit != 0 }

// IsPromote reports whether the move promotes a pawn (bit 15).
func (m Move) IsPromote() bool { return uint16(m)&movePromoteBit != 0 }

// IsKingCastle reports whether the move is kingside castling.
func (m Move) IsKingCastle() bool { return m.Flags() == FlagKingCastle }

// IsQueenCastle reports whether the move is queenside castling.
func (m Move) IsQueenCastle() bool { return m.Flags() == FlagQueenCastle }

// IsCastle reports whether the move is castling of either side.
func (m Move) IsCastle() bool { return m.IsKingCastle() || m.IsQueenCastle() }

// IsEnPassant reports whether the move is an en-passant capture.
func (m Move) IsEnPassant() bool { return m.Flags() == FlagEnPassant }

// IsDoublePawnPush reports whether the move is a two-square pawn
// advance.
func (m Move) IsDoublePawnPush() bool { return m.Flags() == FlagDoublePawnPush }

// IsQuiet reports whether the move is a plain non-capture, non-special
// move.
func (m Move) IsQuiet() bool { return m.Flags() == FlagQuiet }

// PromotePieceType returns the piece type a promotion move promotes
// to. Undefined if !IsPromote().
func (m Move) PromotePieceType() PieceType {
	switch m.Flags() {
	case FlagPromoteKnight, FlagPromoteKnightCap:
		return Knight
	case FlagPromoteBishop, FlagPromoteBishopCap:
		return Bishop
	case FlagPromoteRook, FlagPromoteRookCap:
		return Rook
	case FlagPromoteQueen, FlagPromoteQueenCap:
		return Queen
	}
	return NoPieceType
}

var promoteLetters = map[PieceType]byte{
	Knight: 'n',
	Bishop: 'b',
	Rook:   'r',
	Queen:  'q',
}

// String renders m in UCI-like coordinate form (e2e4, e7e8q). For
// castling, this prints the raw from/rook-origin encoding, not the
// king's canonical destination — callers rendering to a user need to
// special-case IsCastle() themselves.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := fmt.Sprintf("%s%s", m.From(), m.To())
	if m.IsPromote() {
		s += string(promoteLetters[m.PromotePieceType()])
	}
	return s
}
