package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// stateInfo is the per-ply snapshot pushed before Apply mutates the
// position, and popped by Undo to restore everything Apply cannot
// cheaply reverse by replaying the move backwards.
//
// Grounded on original_source/include/mpham_chess/board.hpp's
// state_info.
type stateInfo struct {
	hash          uint64
	rule50        int
	epSquare      Square
	capturedPiece Piece
	castleRights  CastleRights
}

// Position is the full mutable board state: bitboards, mailbox, side
// to move, castling rights (Chess960-aware), en-passant target,
// move-clock bookkeeping, and bounded undo history.
//
// Grounded on original_source/include/mpham_chess/board.hpp's board
// class, adapted to Go value semantics (no copy/assign deletion is
// needed — Position has no copy method and is
// handled through a *Position).
type Position struct {
	pieceBB [12]Bitboard
	colorBB [2]Bitboard
	mailbox [64]Piece

	sideToMove   Color
	startSide    Color
	castleRights CastleRights
	epSquare     Square
	rule50       int
	startMoveNum int
	hash         uint64

	castleKingSquare [2]Square
	castleRookSquare [2][2]Square
	useShredderFEN   bool

	stateHistory []stateInfo
	moveHistory  []Move
}

// NewPosition builds a Position from a FEN string. shredder selects
// Shredder-FEN castle-field notation (always file letters) over
// standard/X-FEN notation (K/Q when the recorded rook is the outer
// rook of its side, a file letter otherwise).
func NewPosition(fen string, shredder bool) (*Position, error) {
	p := &Position{useShredderFEN: shredder}
	if err := p.LoadFEN(fen); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadFEN resets the position to fen, clearing the undo stacks.
//
// Grounded on original_source/src/board.cpp's load_fen: piece
// placement is consumed per rank, and within each rank the characters
// are consumed from the end of the field backwards, placing pieces
// starting at the h-file and working toward the a-file.
func (p *Position) LoadFEN(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return fmt.Errorf("chess: FEN must have 6 fields, got %d", len(fields))
	}

	*p = Position{useShredderFEN: p.useShredderFEN}
	for sq := range p.mailbox {
		p.mailbox[sq] = NoPiece
	}
	p.castleRookSquare = [2][2]Square{{NoSquare, NoSquare}, {NoSquare, NoSquare}}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return fmt.Errorf("chess: FEN piece placement must have 8 ranks, got %d", len(ranks))
	}
	for i, rankStr := range ranks {
		rank := Rank(7 - i)
		file := int(FileH)
		for j := len(rankStr) - 1; j >= 0; j-- {
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				file -= int(c - '0')
				continue
			}
			pc, ok := PieceFromLetter(c)
			if !ok {
				return fmt.Errorf("chess: invalid piece letter %q in FEN", c)
			}
			if file < 0 {
				return fmt.Errorf("chess: FEN rank %q overflows the board", rankStr)
			}
			p.placePiece(NewSquare(File(file), rank), pc)
			file--
		}
	}

	switch fields[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
	default:
		return fmt.Errorf("chess: invalid side to move %q", fields[1])
	}
	p.startSide = p.sideToMove

	p.castleKingSquare[White] = p.pieceBB[WhiteKing].LSB()
	p.castleKingSquare[Black] = p.pieceBB[BlackKing].LSB()
	if err := p.parseCastleRights(fields[2]); err != nil {
		return err
	}

	if fields[3] == "-" {
		p.epSquare = NoSquare
	} else {
		sq, err := parseSquareString(fields[3])
		if err != nil {
			return fmt.Errorf("chess: invalid en-passant field %q: %w", fields[3], err)
		}
		p.epSquare = sq
	}

	rule50, err := strconv.Atoi(fields[4])
	if err != nil || rule50 < 0 {
		return fmt.Errorf("chess: invalid halfmove clock %q", fields[4])
	}
	p.rule50 = rule50

	moveNum, err := strconv.Atoi(fields[5])
	if err != nil || moveNum < 1 {
		return fmt.Errorf("chess: invalid fullmove number %q", fields[5])
	}
	p.startMoveNum = moveNum

	p.hash = p.computeHash()
	return nil
}

// parseCastleRights accepts standard KQkq notation, X-FEN/Shredder
// file-letter notation (e.g. "HAha"), or "-" for no rights.
//
// Grounded on original_source/src/board.cpp's load_fen castle-field
// handling, which treats K/Q/k/q and file letters uniformly: the
// affected rook is located by scanning the back rank, and the
// castling king/rook origin squares are recorded once so Apply/Undo
// and CanCastle never need to re-derive them.
func (p *Position) parseCastleRights(field string) error {
	if field == "-" {
		return nil
	}
	for i := 0; i < len(field); i++ {
		c := field[i]
		color := White
		if c >= 'a' && c <= 'z' {
			color = Black
		}
		backRank := Rank1
		if color == Black {
			backRank = Rank8
		}
		kingSq := p.castleKingSquare[color]
		if kingSq == NoSquare {
			return fmt.Errorf("chess: castle field %q names a color with no king", field)
		}

		upper := c
		if upper >= 'a' && upper <= 'z' {
			upper -= 'a' - 'A'
		}

		var side CastleSide
		var rookSq Square
		rookBB := p.pieceBB[MakePiece(color, Rook)] & RankBB(backRank)
		switch upper {
		case 'K':
			side = CastleKing
			rookSq = rookBB.MSB()
		case 'Q':
			side = CastleQueen
			rookSq = rookBB.LSB()
		default:
			if upper < 'A' || upper > 'H' {
				return fmt.Errorf("chess: invalid castle field character %q", c)
			}
			rookSq = NewSquare(File(upper-'A'), backRank)
			if rookSq.File() > kingSq.File() {
				side = CastleKing
			} else {
				side = CastleQueen
			}
		}
		if rookSq == NoSquare {
			return fmt.Errorf("chess: castle field %q names a rook that isn't on the back rank", field)
		}
		p.castleRookSquare[color][side] = rookSq
		p.castleRights |= CastleBit(color, side)
	}
	return nil
}

func parseSquareString(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("square must be 2 characters")
	}
	f := s[0]
	r := s[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return NoSquare, fmt.Errorf("square out of range")
	}
	return NewSquare(File(f-'a'), Rank(r-'1')), nil
}

// computeHash recomputes the Zobrist hash from scratch: XOR over every
// occupied (square, piece) pair, the castle-rights key, the
// en-passant file key if set, and the side-to-move key if Black.
func (p *Position) computeHash() uint64 {
	var h uint64
	for sq := Square(0); sq < 64; sq++ {
		if pc := p.mailbox[sq]; pc != NoPiece {
			h ^= squarePieceHash(sq, pc)
		}
	}
	h ^= castleHash(p.castleRights)
	if p.epSquare != NoSquare {
		h ^= epFileHash(p.epSquare.File())
	}
	if p.sideToMove == Black {
		h ^= zobristSideToMove
	}
	return h
}

// RecomputeHash independently rebuilds the Zobrist hash from current
// state, for verifying incremental maintenance stayed consistent.
func (p *Position) RecomputeHash() uint64 { return p.computeHash() }

// ToFEN renders the position as a FEN string.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	for rank := Rank8; ; rank-- {
		empty := 0
		for file := FileA; file <= FileH; file++ {
			pc := p.mailbox[NewSquare(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(pc.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > Rank1 {
			sb.WriteByte('/')
		} else {
			break
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(p.sideToMove.String())

	sb.WriteByte(' ')
	sb.WriteString(p.castleFENField())

	sb.WriteByte(' ')
	sb.WriteString(p.epSquare.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.rule50))

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.moveNumber()))

	return sb.String()
}

// castleFENField serializes castling rights. A right is printed as
// K/Q (or k/q) when its recorded rook square is currently the outer
// rook of its side on the back rank (the same rule parseCastleRights
// uses to locate it); otherwise, and always under Shredder-FEN, it is
// printed as the rook's file letter.
func (p *Position) castleFENField() string {
	if p.castleRights == NoCastleRights {
		return "-"
	}
	var sb strings.Builder
	for _, color := range [2]Color{White, Black} {
		backRank := Rank1
		if color == Black {
			backRank = Rank8
		}
		rookBB := p.pieceBB[MakePiece(color, Rook)] & RankBB(backRank)
		outer := [2]Square{rookBB.MSB(), rookBB.LSB()} // indexed by CastleSide
		for _, side := range [2]CastleSide{CastleKing, CastleQueen} {
			if !p.castleRights.Has(CastleBit(color, side)) {
				continue
			}
			rookSq := p.castleRookSquare[color][side]
			var letter byte
			if !p.useShredderFEN && rookSq == outer[side] {
				if side == CastleKing {
					letter = 'K'
				} else {
					letter = 'Q'
				}
			} else {
				letter = 'A' + byte(rookSq.File())
			}
			if color == Black {
				letter += 'a' - 'A'
			}
			sb.WriteByte(letter)
		}
	}
	return sb.String()
}

// moveNumber computes the current fullmove number: it increments only
// once Black has completed a ply, regardless of which side the FEN
// started with to move.
func (p *Position) moveNumber() int {
	plies := len(p.moveHistory)
	var blackMoves int
	if p.startSide == White {
		blackMoves = plies / 2
	} else {
		blackMoves = (plies + 1) / 2
	}
	return p.startMoveNum + blackMoves
}

func (p *Position) String() string {
	var sb strings.Builder
	for rank := Rank8; ; rank-- {
		sb.WriteByte('1' + byte(rank))
		sb.WriteByte(' ')
		for file := FileA; file <= FileH; file++ {
			sb.WriteString(p.mailbox[NewSquare(file, rank)].String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
		if rank == Rank1 {
			break
		}
	}
	sb.WriteString("  a b c d e f g h\n")
	fmt.Fprintf(&sb, "side to move: %s  castle: %s  ep: %s  halfmove: %d  fullmove: %d\n",
		p.sideToMove, p.castleFENField(), p.epSquare, p.rule50, p.moveNumber())
	return sb.String()
}

// PieceBB returns the bitboard of every piece of kind pc.
func (p *Position) PieceBB(pc Piece) Bitboard { return p.pieceBB[pc] }

// ColorBB returns the bitboard of every piece of color c.
func (p *Position) ColorBB(c Color) Bitboard { return p.colorBB[c] }

// OccupiedBB returns the bitboard of every occupied square.
func (p *Position) OccupiedBB() Bitboard { return p.colorBB[White] | p.colorBB[Black] }

// UnoccupiedBB returns the bitboard of every empty square.
func (p *Position) UnoccupiedBB() Bitboard { return ^p.OccupiedBB() }

// PieceOn returns the piece occupying sq, or NoPiece.
func (p *Position) PieceOn(sq Square) Piece { return p.mailbox[sq] }

// SideToMove returns the color to move.
func (p *Position) SideToMove() Color { return p.sideToMove }

// CastleRights returns the current castling rights mask.
func (p *Position) CastleRights() CastleRights { return p.castleRights }

// EPSquare returns the current en-passant target square, or NoSquare.
func (p *Position) EPSquare() Square { return p.epSquare }

// Rule50 returns the halfmove clock.
func (p *Position) Rule50() int { return p.rule50 }

// Hash returns the incrementally-maintained Zobrist hash.
func (p *Position) Hash() uint64 { return p.hash }

// Ply returns the number of moves applied since the position was
// loaded.
func (p *Position) Ply() int { return len(p.moveHistory) }

// KingCastleSquare returns color's king's origin square, as recorded
// at FEN load (fixed for the position's lifetime, per Chess960
// castling rules).
func (p *Position) KingCastleSquare(c Color) Square { return p.castleKingSquare[c] }

// RookCastleSquare returns color's rook's origin square for the given
// castling side, as recorded at FEN load.
func (p *Position) RookCastleSquare(c Color, side CastleSide) Square {
	return p.castleRookSquare[c][side]
}

func (p *Position) placePiece(sq Square, pc Piece) {
	bb := SquareBB(sq)
	p.pieceBB[pc] |= bb
	p.colorBB[pc.Color()] |= bb
	p.mailbox[sq] = pc
	p.hash ^= squarePieceHash(sq, pc)
}

func (p *Position) removePiece(sq Square) {
	pc := p.mailbox[sq]
	bb := SquareBB(sq)
	p.pieceBB[pc] &^= bb
	p.colorBB[pc.Color()] &^= bb
	p.mailbox[sq] = NoPiece
	p.hash ^= squarePieceHash(sq, pc)
}

func (p *Position) movePiece(from, to Square) {
	pc := p.mailbox[from]
	bb := SquareBB(from) | SquareBB(to)
	p.pieceBB[pc] ^= bb
	p.colorBB[pc.Color()] ^= bb
	p.mailbox[from] = NoPiece
	p.mailbox[to] = pc
	p.hash ^= squarePieceHash(from, pc) ^ squarePieceHash(to, pc)
}

// AttackersTo returns every square (of either color) whose piece
// attacks target, given blockers.
func (p *Position) AttackersTo(target Square, blockers Bitboard) Bitboard {
	return attackersTo(p, target, blockers)
}

// AttacksByColor returns the union of every square color's pieces
// attack, given the position's current occupancy.
//
// Grounded on original_source/include/mpham_chess/board.hpp's
// attacks_by_color<side>.
func (p *Position) AttacksByColor(c Color) Bitboard {
	occ := p.OccupiedBB()
	var attacks Bitboard
	pawns := p.pieceBB[MakePiece(c, Pawn)]
	if c == White {
		attacks |= pawns.Shift(DirNE) | pawns.Shift(DirNW)
	} else {
		attacks |= pawns.Shift(DirSE) | pawns.Shift(DirSW)
	}

	knights := p.pieceBB[MakePiece(c, Knight)]
	for _, d := range knightDirs {
		attacks |= knights.Shift(d)
	}

	kings := p.pieceBB[MakePiece(c, King)]
	for _, d := range kingDirs {
		attacks |= kings.Shift(d)
	}

	bishops := p.pieceBB[MakePiece(c, Bishop)]
	for bishops != EmptyBB {
		sq := bishops.PopLSB()
		attacks |= BishopAttacks(sq, occ)
	}
	rooks := p.pieceBB[MakePiece(c, Rook)]
	for rooks != EmptyBB {
		sq := rooks.PopLSB()
		attacks |= RookAttacks(sq, occ)
	}
	queens := p.pieceBB[MakePiece(c, Queen)]
	for queens != EmptyBB {
		sq := queens.PopLSB()
		attacks |= QueenAttacks(sq, occ)
	}
	return attacks
}

// IsCheck reports whether color's king is attacked by the opposing
// side.
func (p *Position) IsCheck(c Color) bool {
	kingSq := p.pieceBB[MakePiece(c, King)].LSB()
	if kingSq == NoSquare {
		return false
	}
	enemy := c.Opposite()
	return attackersTo(p, kingSq, p.OccupiedBB())&p.colorBB[enemy] != 0
}

// CanCastle reports whether color may currently castle to the given
// side: the right must be held, every square strictly between (and
// including) the king's and rook's origin/destination squares other
// than the two origin squares themselves must be empty, and every
// square the king passes through (including its origin and
// destination) must not be attacked by the opposing side.
//
// Grounded on original_source/src/board.cpp's can_do_castle, resolved
// for Chess960 via the recorded castleKingSquare/castleRookSquare
// rather than assuming the standard e1/e8/h1/h8/a1/a8 squares.
func (p *Position) CanCastle(c Color, side CastleSide) bool {
	if !p.castleRights.Has(CastleBit(c, side)) {
		return false
	}
	kingFrom := p.castleKingSquare[c]
	rookFrom := p.castleRookSquare[c][side]
	rank := kingFrom.Rank()
	var kingTo, rookTo Square
	if side == CastleKing {
		kingTo = NewSquare(FileG, rank)
		rookTo = NewSquare(FileF, rank)
	} else {
		kingTo = NewSquare(FileC, rank)
		rookTo = NewSquare(FileD, rank)
	}

	leftmost, rightmost := kingFrom, kingFrom
	for _, sq := range [3]Square{kingTo, rookFrom, rookTo} {
		if sq < leftmost {
			leftmost = sq
		}
		if sq > rightmost {
			rightmost = sq
		}
	}
	pathBB := (SquaresBetween(leftmost, rightmost) | SquareBB(leftmost) | SquareBB(rightmost)) &^
		(SquareBB(kingFrom) | SquareBB(rookFrom))
	if pathBB&p.OccupiedBB() != 0 {
		return false
	}

	kingPathBB := SquaresBetween(kingFrom, kingTo) | SquareBB(kingFrom) | SquareBB(kingTo)
	if kingPathBB&p.AttacksByColor(c.Opposite()) != 0 {
		return false
	}
	return true
}

// Apply plays m, pushing enough state onto the undo stacks for a
// matching Undo to exactly reverse it. m must be a pseudo-legal move
// for the current position (as GenerateMoves produces). Apply asserts
// that the from-square holds a piece of the side to move, that a
// promotion moves a pawn and that a castle moves the king; it does not
// check whether the move leaves the mover's king in check.
//
// Grounded on original_source/src/board.cpp's do_move.
func (p *Position) Apply(m Move) {
	assertf(len(p.moveHistory) < MaxPly, "chess: move history exceeds MaxPly (%d)", MaxPly)

	side := p.sideToMove
	enemy := side.Opposite()
	from := m.From()
	to := m.To()
	movingPiece := p.mailbox[from]
	assertf(movingPiece != NoPiece && movingPiece.Color() == side, "chess: Apply %s: no %v piece on %s", m, side, from)
	assertf(!m.IsPromote() || movingPiece.Type() == Pawn, "chess: Apply %s: promotion without a pawn", m)
	assertf(!m.IsCastle() || movingPiece.Type() == King, "chess: Apply %s: castle without the king", m)

	var epCaptureSquare Square = NoSquare
	var capturedPiece Piece
	if m.IsEnPassant() {
		if side == White {
			epCaptureSquare = to - Square(DirN)
		} else {
			epCaptureSquare = to - Square(DirS)
		}
		capturedPiece = p.mailbox[epCaptureSquare]
	} else {
		capturedPiece = p.mailbox[to]
	}

	p.stateHistory = append(p.stateHistory, stateInfo{
		hash:          p.hash,
		rule50:        p.rule50,
		epSquare:      p.epSquare,
		capturedPiece: capturedPiece,
		castleRights:  p.castleRights,
	})

	p.sideToMove = enemy
	p.hash ^= zobristSideToMove

	if m.IsCapture() || movingPiece.Type() == Pawn {
		p.rule50 = 0
	} else {
		p.rule50++
	}

	if p.epSquare != NoSquare {
		p.hash ^= epFileHash(p.epSquare.File())
	}
	p.epSquare = NoSquare
	if m.IsDoublePawnPush() {
		var passed Square
		if side == White {
			passed = from + Square(DirN)
		} else {
			passed = from + Square(DirS)
		}
		adjacent := SquareBB(to).Shift(DirE) | SquareBB(to).Shift(DirW)
		if adjacent&p.pieceBB[MakePiece(enemy, Pawn)] != 0 {
			p.epSquare = passed
			p.hash ^= epFileHash(passed.File())
		}
	}

	oldCR := p.castleRights
	switch {
	case movingPiece.Type() == King:
		p.castleRights &^= CastleBit(side, CastleKing) | CastleBit(side, CastleQueen)
	case movingPiece.Type() == Rook:
		if from == p.castleRookSquare[side][CastleKing] {
			p.castleRights &^= CastleBit(side, CastleKing)
		} else if from == p.castleRookSquare[side][CastleQueen] {
			p.castleRights &^= CastleBit(side, CastleQueen)
		}
	}
	if m.IsCapture() && capturedPiece.Type() == Rook {
		if to == p.castleRookSquare[enemy][CastleKing] {
			p.castleRights &^= CastleBit(enemy, CastleKing)
		} else if to == p.castleRookSquare[enemy][CastleQueen] {
			p.castleRights &^= CastleBit(enemy, CastleQueen)
		}
	}
	if oldCR != p.castleRights {
		p.hash ^= castleHash(oldCR) ^ castleHash(p.castleRights)
	}

	p.moveHistory = append(p.moveHistory, m)

	if m.IsCapture() {
		if m.IsEnPassant() {
			p.removePiece(epCaptureSquare)
		} else {
			p.removePiece(to)
		}
	}

	switch {
	case m.IsPromote():
		p.removePiece(from)
		p.placePiece(to, MakePiece(side, m.PromotePieceType()))
	case m.IsCastle():
		kingFrom := p.castleKingSquare[side]
		rookFrom := to
		rank := kingFrom.Rank()
		var kingTo, rookTo Square
		if m.IsKingCastle() {
			kingTo = NewSquare(FileG, rank)
			rookTo = NewSquare(FileF, rank)
		} else {
			kingTo = NewSquare(FileC, rank)
			rookTo = NewSquare(FileD, rank)
		}
		p.removePiece(kingFrom)
		p.removePiece(rookFrom)
		p.placePiece(kingTo, MakePiece(side, King))
		p.placePiece(rookTo, MakePiece(side, Rook))
	default:
		p.movePiece(from, to)
	}
}

// Undo exactly reverses the most recent Apply. Panics if no move has
// been applied.
func (p *Position) Undo() {
	n := len(p.moveHistory)
	assertf(n > 0, "chess: Undo called with no move to undo")
	m := p.moveHistory[n-1]
	p.moveHistory = p.moveHistory[:n-1]
	st := p.stateHistory[len(p.stateHistory)-1]
	p.stateHistory = p.stateHistory[:len(p.stateHistory)-1]

	mover := p.sideToMove.Opposite()
	from := m.From()
	to := m.To()

	switch {
	case m.IsPromote():
		p.removePiece(to)
		p.placePiece(from, MakePiece(mover, Pawn))
	case m.IsCastle():
		kingFrom := p.castleKingSquare[mover]
		rookFrom := to
		rank := kingFrom.Rank()
		var kingTo, rookTo Square
		if m.IsKingCastle() {
			kingTo = NewSquare(FileG, rank)
			rookTo = NewSquare(FileF, rank)
		} else {
			kingTo = NewSquare(FileC, rank)
			rookTo = NewSquare(FileD, rank)
		}
		p.removePiece(kingTo)
		p.removePiece(rookTo)
		p.placePiece(kingFrom, MakePiece(mover, King))
		p.placePiece(rookFrom, MakePiece(mover, Rook))
	default:
		p.movePiece(to, from)
	}

	if m.IsCapture() {
		var captureSquare Square
		if m.IsEnPassant() {
			if mover == White {
				captureSquare = to - Square(DirN)
			} else {
				captureSquare = to - Square(DirS)
			}
		} else {
			captureSquare = to
		}
		p.placePiece(captureSquare, st.capturedPiece)
	}

	p.hash = st.hash
	p.rule50 = st.rule50
	p.epSquare = st.epSquare
	p.castleRights = st.castleRights
	p.sideToMove = mover
}
