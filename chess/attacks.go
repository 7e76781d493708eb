package chess

// Leaper attack tables, populated once by initAttackTables.
var (
	pawnAttacks   [2][64]Bitboard
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard

	squaresBetween [64][64]Bitboard
	chebyshevDist  [64][64]int
)

var knightDirs = [8]Direction{DirNNE, DirNEE, DirSEE, DirSSE, DirSSW, DirSWW, DirNWW, DirNNW}
var kingDirs = [8]Direction{DirN, DirNE, DirE, DirSE, DirS, DirSW, DirW, DirNW}
var bishopDirs = [4]Direction{DirNE, DirSE, DirSW, DirNW}
var rookDirs = [4]Direction{DirN, DirE, DirS, DirW}

// magicEntry is a single square's fancy-magic table descriptor.
//
// Grounded on original_source/include/mpham_chess/attacks.hpp's
// magic_entry: get_attack_table_key(blockers) = ((magic * (blockers &
// relevantBlockers)) >> keyShift) + tableOffset.
type magicEntry struct {
	relevantBlockers Bitboard
	magic            uint64
	tableOffset      uint32
	keyShift         uint8
}

func (m magicEntry) index(blockers Bitboard) uint32 {
	masked := uint64(blockers) & uint64(m.relevantBlockers)
	return uint32((masked*m.magic)>>m.keyShift) + m.tableOffset
}

var (
	bishopMagics [64]magicEntry
	rookMagics   [64]magicEntry
	bishopTable  []Bitboard
	rookTable    []Bitboard
)

func initAttackTables() {
	initLeaperTables()
	initGeometryTables()
	initSliderTables()
}

func initLeaperTables() {
	for sq := Square(0); sq < 64; sq++ {
		bb := SquareBB(sq)

		pawnAttacks[White][sq] = bb.Shift(DirNE) | bb.Shift(DirNW)
		pawnAttacks[Black][sq] = bb.Shift(DirSE) | bb.Shift(DirSW)

		var kn Bitboard
		for _, d := range knightDirs {
			kn |= bb.Shift(d)
		}
		knightAttacks[sq] = kn

		var ki Bitboard
		for _, d := range kingDirs {
			ki |= bb.Shift(d)
		}
		kingAttacks[sq] = ki
	}
}

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(c Color, sq Square) Bitboard { return pawnAttacks[c][sq] }

// KnightAttacks returns the squares a knight on sq attacks.
func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }

// KingAttacks returns the squares a king on sq attacks (steps only).
func KingAttacks(sq Square) Bitboard { return kingAttacks[sq] }

func slidingRayAttacksEmptyBoard(pt PieceType, sq Square) Bitboard {
	var dirs []Direction
	switch pt {
	case Bishop:
		dirs = bishopDirs[:]
	case Rook:
		dirs = rookDirs[:]
	default:
		dirs = append(append([]Direction{}, bishopDirs[:]...), rookDirs[:]...)
	}
	var bb Bitboard
	origin := SquareBB(sq)
	for _, d := range dirs {
		bb |= RayAttack(d, origin, EmptyBB)
	}
	return bb
}

func slidingAttacksWithBlockers(pt PieceType, sq Square, blockers Bitboard) Bitboard {
	var dirs []Direction
	switch pt {
	case Bishop:
		dirs = bishopDirs[:]
	case Rook:
		dirs = rookDirs[:]
	default:
		dirs = append(append([]Direction{}, bishopDirs[:]...), rookDirs[:]...)
	}
	var bb Bitboard
	origin := SquareBB(sq)
	for _, d := range dirs {
		bb |= RayAttack(d, origin, blockers)
	}
	return bb
}

// relevantBlockerMask computes the slider's empty-board attack set
// minus edge squares on directions where the slider doesn't already
// sit on that edge.
//
// Grounded on original_source/include/mpham_chess/attacks.hpp's
// relevant_blocker_mask<pt>.
func relevantBlockerMask(pt PieceType, sq Square) Bitboard {
	full := slidingRayAttacksEmptyBoard(pt, sq)
	fileBB := FileBB(sq.File())
	rankBB := RankBB(sq.Rank())
	irrelevant := ((FileABB | FileHBB) & ^fileBB) | ((Rank1BB | Rank8BB) & ^rankBB)
	return full & ^irrelevant
}

// carryRipplerNext advances the Carry-Rippler subset-enumeration
// recurrence: subset' = (subset - mask) & mask.
func carryRipplerNext(subset, mask Bitboard) Bitboard {
	return (subset - mask) & mask
}

// findMagic searches for a collision-free (up to constructive
// collisions) magic multiplier for the given slider/square, using a
// sparse xorshift64 RNG. Terminates once a valid magic is found; the
// spec (and the mathematics of magic bitboards) guarantee one exists.
//
// Grounded on original_source/include/mpham_chess/attacks.hpp's
// find_magic<pt>.
func findMagic(pt PieceType, sq Square, rng *xorshift64) (magicEntry, []Bitboard) {
	mask := relevantBlockerMask(pt, sq)
	k := mask.PopCount()
	size := 1 << uint(k)
	shift := uint8(64 - k)

	type subsetAttack struct {
		blockers Bitboard
		attacks  Bitboard
	}
	pairs := make([]subsetAttack, 0, size)
	subset := Bitboard(0)
	for {
		attacks := slidingAttacksWithBlockers(pt, sq, subset)
		pairs = append(pairs, subsetAttack{blockers: subset, attacks: attacks})
		subset = carryRipplerNext(subset, mask)
		if subset == 0 {
			break
		}
	}

	table := make([]Bitboard, size)
	for {
		candidate := rng.generateSparse()

		for i := range table {
			table[i] = 0
		}
		ok := true
		var used = make([]bool, size)
		for _, p := range pairs {
			idx := uint32((uint64(p.blockers) * candidate) >> shift)
			if used[idx] && table[idx] != p.attacks {
				ok = false
				break
			}
			table[idx] = p.attacks
			used[idx] = true
		}
		if ok {
			return magicEntry{
				relevantBlockers: mask,
				magic:            candidate,
				keyShift:         shift,
			}, table
		}
	}
}

func initSliderTables() {
	rng := newXorshift64(0x5EED)

	var bishopFlat, rookFlat []Bitboard
	for sq := Square(0); sq < 64; sq++ {
		entry, table := findMagic(Bishop, sq, rng)
		entry.tableOffset = uint32(len(bishopFlat))
		bishopMagics[sq] = entry
		bishopFlat = append(bishopFlat, table...)
	}
	for sq := Square(0); sq < 64; sq++ {
		entry, table := findMagic(Rook, sq, rng)
		entry.tableOffset = uint32(len(rookFlat))
		rookMagics[sq] = entry
		rookFlat = append(rookFlat, table...)
	}
	bishopTable = bishopFlat
	rookTable = rookFlat
}

func initGeometryTables() {
	for a := Square(0); a < 64; a++ {
		for b := Square(0); b < 64; b++ {
			fa, ra := int(a.File()), int(a.Rank())
			fb, rb := int(b.File()), int(b.Rank())
			df, dr := fb-fa, rb-ra
			if df < 0 {
				df = -df
			}
			if dr < 0 {
				dr = -dr
			}
			if df > dr {
				chebyshevDist[a][b] = df
			} else {
				chebyshevDist[a][b] = dr
			}

			squaresBetween[a][b] = computeBetween(a, b)
		}
	}
}

func computeBetween(a, b Square) Bitboard {
	if a == b {
		return EmptyBB
	}
	fa, ra := a.File(), a.Rank()
	fb, rb := b.File(), b.Rank()
	sameRank := ra == rb
	sameFile := fa == fb
	sameDiag := int(fa)-int(fb) == int(ra)-int(rb)
	sameAntiDiag := int(fa)-int(fb) == -(int(ra) - int(rb))
	if !sameRank && !sameFile && !sameDiag && !sameAntiDiag {
		return EmptyBB
	}
	pt := Bishop
	if sameRank || sameFile {
		pt = Rook
	}
	fromA := slidingAttacksWithBlockers(pt, a, SquareBB(b))
	fromB := slidingAttacksWithBlockers(pt, b, SquareBB(a))
	return fromA & fromB
}

// BishopAttacks returns the bishop attack bitboard from sq given the
// current blocker set, via the fancy magic table lookup.
func BishopAttacks(sq Square, blockers Bitboard) Bitboard {
	e := bishopMagics[sq]
	return bishopTable[e.index(blockers)]
}

// RookAttacks returns the rook attack bitboard from sq given the
// current blocker set, via the fancy magic table lookup.
func RookAttacks(sq Square, blockers Bitboard) Bitboard {
	e := rookMagics[sq]
	return rookTable[e.index(blockers)]
}

// QueenAttacks is the union of bishop and rook attacks from sq.
func QueenAttacks(sq Square, blockers Bitboard) Bitboard {
	return BishopAttacks(sq, blockers) | RookAttacks(sq, blockers)
}

// AttacksOf dispatches to the correct attack table for pt.
func AttacksOf(pt PieceType, sq Square, blockers Bitboard) Bitboard {
	switch pt {
	case Knight:
		return KnightAttacks(sq)
	case Bishop:
		return BishopAttacks(sq, blockers)
	case Rook:
		return RookAttacks(sq, blockers)
	case Queen:
		return QueenAttacks(sq, blockers)
	case King:
		return KingAttacks(sq)
	}
	return EmptyBB
}

// SquaresBetween returns the bitboard of squares strictly between a
// and b when they share a rank, file, or diagonal; empty otherwise.
// Symmetric: SquaresBetween(a,b) == SquaresBetween(b,a).
func SquaresBetween(a, b Square) Bitboard { return squaresBetween[a][b] }

// ChebyshevDistance returns max(|file delta|, |rank delta|) between a
// and b.
func ChebyshevDistance(a, b Square) int { return chebyshevDist[a][b] }

// pieceBitboardSource is the bitboard view attackersTo reads;
// Position implements it.
type pieceBitboardSource interface {
	PieceBB(p Piece) Bitboard
	OccupiedBB() Bitboard
}

// AttackersTo returns the set of squares occupied by any piece (of
// either color) that attacks target, given the current blocker set.
//
// Grounded on original_source/include/mpham_chess/board.hpp's
// attacks_to<sq_or_bb>.
func attackersTo(pos pieceBitboardSource, target Square, blockers Bitboard) Bitboard {
	wPawns := pos.PieceBB(WhitePawn)
	bPawns := pos.PieceBB(BlackPawn)
	knights := pos.PieceBB(WhiteKnight) | pos.PieceBB(BlackKnight)
	bishops := pos.PieceBB(WhiteBishop) | pos.PieceBB(BlackBishop)
	rooks := pos.PieceBB(WhiteRook) | pos.PieceBB(BlackRook)
	queens := pos.PieceBB(WhiteQueen) | pos.PieceBB(BlackQueen)
	kings := pos.PieceBB(WhiteKing) | pos.PieceBB(BlackKing)

	return (PawnAttacks(White, target) & bPawns) |
		(PawnAttacks(Black, target) & wPawns) |
		(KnightAttacks(target) & knights) |
		(BishopAttacks(target, blockers) & (bishops | queens)) |
		(RookAttacks(target, blockers) & (rooks | queens)) |
		(KingAttacks(target) & kings)
}
