package chess

// GenMode selects which subset of a position's pseudo-legal moves
// GenerateMoves produces.
type GenMode int

const (
	GenQuiet       GenMode = iota // no-capture moves, including castling
	GenCapture                    // captures, including en passant and promotion-captures
	GenPseudolegal                // both of the above
)

func modeWants(mode GenMode, isCapture bool) bool {
	switch mode {
	case GenQuiet:
		return !isCapture
	case GenCapture:
		return isCapture
	default:
		return true
	}
}

// MoveList is a fixed-capacity move buffer. Generation panics rather
// than growing past MaxMoveBufferSize.
type MoveList struct {
	moves [MaxMoveBufferSize]Move
	n     int
}

// Add appends m to the list.
func (ml *MoveList) Add(m Move) {
	assertf(ml.n < len(ml.moves), "chess: move buffer overflow (capacity %d)", len(ml.moves))
	ml.moves[ml.n] = m
	ml.n++
}

// Reset empties the list without reallocating.
func (ml *MoveList) Reset() { ml.n = 0 }

// Len returns the number of moves currently in the list.
func (ml *MoveList) Len() int { return ml.n }

// Moves returns the list's contents as a slice backed by the list's
// own array; valid until the next Reset.
func (ml *MoveList) Moves() []Move { return ml.moves[:ml.n] }

// At returns the i'th move in the list.
func (ml *MoveList) At(i int) Move { return ml.moves[i] }

// GenerateMoves appends every pseudo-legal move matching mode for the
// side to move in pos onto buf, and returns how many moves this call
// added. Pseudo-legal: the generator does not filter out moves that
// leave the mover's own king in check — callers (Perft, a search
// driver) apply the move and check Position.IsCheck for the side that
// just moved.
//
// Grounded on original_source/include/mpham_chess/movegen.hpp's
// generate_moves: pawn moves first, then king (steps and castling),
// then knight, bishop, rook, queen.
func GenerateMoves(mode GenMode, pos *Position, buf *MoveList) int {
	before := buf.Len()
	side := pos.SideToMove()
	genPawnMoves(pos, side, mode, buf)
	genKingMoves(pos, side, mode, buf)
	genPieceMoves(pos, side, Knight, mode, buf)
	genPieceMoves(pos, side, Bishop, mode, buf)
	genPieceMoves(pos, side, Rook, mode, buf)
	genPieceMoves(pos, side, Queen, mode, buf)
	return buf.Len() - before
}

func genPawnMoves(pos *Position, side Color, mode GenMode, buf *MoveList) {
	pawns := pos.PieceBB(MakePiece(side, Pawn))
	empty := pos.UnoccupiedBB()
	enemy := pos.ColorBB(side.Opposite())

	var forward, capA, capB Direction
	var thirdRankBB Bitboard
	var promoRank Rank
	if side == White {
		forward, capA, capB = DirN, DirNE, DirNW
		thirdRankBB = Rank3BB
		promoRank = Rank8
	} else {
		forward, capA, capB = DirS, DirSE, DirSW
		thirdRankBB = Rank6BB
		promoRank = Rank1
	}

	pushes := pawns.Shift(forward) & empty
	doublePushes := (pushes & thirdRankBB).Shift(forward) & empty
	promoPushes := pushes & RankBB(promoRank)
	quietPushes := pushes &^ RankBB(promoRank)

	if modeWants(mode, false) {
		for bb := quietPushes; bb != EmptyBB; {
			to := bb.PopLSB()
			buf.Add(NewMove(to-Square(forward), to, FlagQuiet))
		}
		for bb := doublePushes; bb != EmptyBB; {
			to := bb.PopLSB()
			buf.Add(NewMove(to-Square(forward)-Square(forward), to, FlagDoublePawnPush))
		}
		for bb := promoPushes; bb != EmptyBB; {
			to := bb.PopLSB()
			appendPromotions(buf, to-Square(forward), to, false)
		}
	}

	for _, dir := range [2]Direction{capA, capB} {
		caps := pawns.Shift(dir) & enemy
		promoCaps := caps & RankBB(promoRank)
		plainCaps := caps &^ RankBB(promoRank)
		if modeWants(mode, true) {
			for bb := plainCaps; bb != EmptyBB; {
				to := bb.PopLSB()
				buf.Add(NewMove(to-Square(dir), to, FlagCapture))
			}
			for bb := promoCaps; bb != EmptyBB; {
				to := bb.PopLSB()
				appendPromotions(buf, to-Square(dir), to, true)
			}
		}
	}

	if modeWants(mode, true) {
		if ep := pos.EPSquare(); ep != NoSquare {
			attackers := PawnAttacks(side.Opposite(), ep) & pawns
			for bb := attackers; bb != EmptyBB; {
				from := bb.PopLSB()
				buf.Add(NewMove(from, ep, FlagEnPassant))
			}
		}
	}
}

// appendPromotions emits the four promotion choices in queen, rook,
// bishop, knight order, matching the original generator's emission
// order.
func appendPromotions(buf *MoveList, from, to Square, capture bool) {
	if capture {
		buf.Add(NewMove(from, to, FlagPromoteQueenCap))
		buf.Add(NewMove(from, to, FlagPromoteRookCap))
		buf.Add(NewMove(from, to, FlagPromoteBishopCap))
		buf.Add(NewMove(from, to, FlagPromoteKnightCap))
		return
	}
	buf.Add(NewMove(from, to, FlagPromoteQueen))
	buf.Add(NewMove(from, to, FlagPromoteRook))
	buf.Add(NewMove(from, to, FlagPromoteBishop))
	buf.Add(NewMove(from, to, FlagPromoteKnight))
}

func genKingMoves(pos *Position, side Color, mode GenMode, buf *MoveList) {
	kingSq := pos.PieceBB(MakePiece(side, King)).LSB()
	if kingSq == NoSquare {
		return
	}
	own := pos.ColorBB(side)
	targets := KingAttacks(kingSq) &^ own
	for targets != EmptyBB {
		to := targets.PopLSB()
		isCapture := pos.PieceOn(to) != NoPiece
		if !modeWants(mode, isCapture) {
			continue
		}
		flag := FlagQuiet
		if isCapture {
			flag = FlagCapture
		}
		buf.Add(NewMove(kingSq, to, flag))
	}
	if !modeWants(mode, false) {
		return
	}
	if pos.CanCastle(side, CastleKing) {
		buf.Add(NewMove(kingSq, pos.RookCastleSquare(side, CastleKing), FlagKingCastle))
	}
	if pos.CanCastle(side, CastleQueen) {
		buf.Add(NewMove(kingSq, pos.RookCastleSquare(side, CastleQueen), FlagQueenCastle))
	}
}

// genPieceMoves generates every pseudo-legal move for pos's pieces of
// kind pt (knight, bishop, rook, or queen).
func genPieceMoves(pos *Position, side Color, pt PieceType, mode GenMode, buf *MoveList) {
	pieces := pos.PieceBB(MakePiece(side, pt))
	own := pos.ColorBB(side)
	occ := pos.OccupiedBB()
	for pieces != EmptyBB {
		from := pieces.PopLSB()
		targets := AttacksOf(pt, from, occ) &^ own
		for targets != EmptyBB {
			to := targets.PopLSB()
			isCapture := pos.PieceOn(to) != NoPiece
			if !modeWants(mode, isCapture) {
				continue
			}
			flag := FlagQuiet
			if isCapture {
				flag = FlagCapture
			}
			buf.Add(NewMove(from, to, flag))
		}
	}
}
