package chess

import "testing"

func mustPosition(t *testing.T, fen string, shredder bool) *Position {
	t.Helper()
	pos, err := NewPosition(fen, shredder)
	if err != nil {
		t.Fatalf("NewPosition(%q) failed: %v", fen, err)
	}
	return pos
}

func TestStartPositionFENRoundTrip(t *testing.T) {
	pos := mustPosition(t, StartFEN, false)
	if got := pos.ToFEN(); got != StartFEN {
		t.Fatalf("ToFEN() = %q, want %q", got, StartFEN)
	}
	if pos.PieceBB(WhiteKing).PopCount() != 1 || pos.PieceBB(BlackKing).PopCount() != 1 {
		t.Fatalf("start position must have exactly one king per side")
	}
	if pos.SideToMove() != White {
		t.Fatalf("start position side to move = %v, want White", pos.SideToMove())
	}
}

func TestFENRoundTripPreservesHash(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	for _, fen := range fens {
		pos := mustPosition(t, fen, false)
		fen2 := pos.ToFEN()
		reloaded := mustPosition(t, fen2, false)
		if reloaded.ToFEN() != fen2 {
			t.Fatalf("FEN did not round-trip: %q -> %q -> %q", fen, fen2, reloaded.ToFEN())
		}
		if reloaded.Hash() != pos.Hash() {
			t.Fatalf("hash mismatch after FEN reload for %q: %#x vs %#x", fen, pos.Hash(), reloaded.Hash())
		}
		if got, want := reloaded.Hash(), reloaded.RecomputeHash(); got != want {
			t.Fatalf("RecomputeHash disagrees with incremental hash: %#x vs %#x", got, want)
		}
	}
}

func applyMoveByUCI(t *testing.T, pos *Position, from, to Square, flag MoveFlag) Move {
	t.Helper()
	m := NewMove(from, to, flag)
	pos.Apply(m)
	return m
}

func TestApplyUndoRestoresEveryField(t *testing.T) {
	pos := mustPosition(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", false)
	beforeFEN := pos.ToFEN()
	beforeHash := pos.Hash()

	var buf MoveList
	GenerateMoves(GenPseudolegal, pos, &buf)
	if buf.Len() == 0 {
		t.Fatalf("expected pseudo-legal moves from a normal middlegame position")
	}

	for _, m := range buf.Moves() {
		pos.Apply(m)
		pos.Undo()
		if got := pos.ToFEN(); got != beforeFEN {
			t.Fatalf("move %s: FEN not restored after Apply/Undo: got %q, want %q", m, got, beforeFEN)
		}
		if got := pos.Hash(); got != beforeHash {
			t.Fatalf("move %s: hash not restored after Apply/Undo: got %#x, want %#x", m, got, beforeHash)
		}
	}
}

func TestEnPassantCaptureAndUndo(t *testing.T) {
	pos := mustPosition(t, "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3", false)
	before := pos.ToFEN()
	m := NewMove(E5, D6, FlagEnPassant)
	pos.Apply(m)
	if pos.PieceOn(D5) != NoPiece {
		t.Fatalf("captured pawn on d5 should be removed by en passant")
	}
	if pos.PieceOn(D6) != WhitePawn {
		t.Fatalf("capturing pawn should land on d6")
	}
	pos.Undo()
	if got := pos.ToFEN(); got != before {
		t.Fatalf("en passant undo mismatch: got %q, want %q", got, before)
	}
}

func TestCastlingRightsClearOnKingAndRookMoves(t *testing.T) {
	pos := mustPosition(t, StartFEN, false)
	applyMoveByUCI(t, pos, E2, E4, FlagDoublePawnPush)
	applyMoveByUCI(t, pos, E7, E5, FlagDoublePawnPush)
	applyMoveByUCI(t, pos, G1, F3, FlagQuiet)
	applyMoveByUCI(t, pos, B8, C6, FlagQuiet)
	applyMoveByUCI(t, pos, F1, C4, FlagQuiet)
	applyMoveByUCI(t, pos, G8, F6, FlagQuiet)

	if !pos.CanCastle(White, CastleKing) {
		t.Fatalf("white should be able to castle kingside here")
	}
	applyMoveByUCI(t, pos, E1, H1, FlagKingCastle)
	if pos.CastleRights().Has(WhiteKingside) || pos.CastleRights().Has(WhiteQueenside) {
		t.Fatalf("castling must clear both of the mover's castle rights")
	}
	if pos.PieceOn(G1) != WhiteKing || pos.PieceOn(F1) != WhiteRook {
		t.Fatalf("kingside castle should place king on g1 and rook on f1, got king=%v rook=%v", pos.PieceOn(G1), pos.PieceOn(F1))
	}
	pos.Undo()
	if pos.PieceOn(E1) != WhiteKing || pos.PieceOn(H1) != WhiteRook {
		t.Fatalf("undo of kingside castle should restore king to e1 and rook to h1")
	}
	if !pos.CastleRights().Has(WhiteKingside) {
		t.Fatalf("undo should restore castle rights")
	}
}

// TestChess960ScenarioSixEndToEnd exercises the Chess960 X-FEN castle
// field's dynamic outer-rook recomputation: after enough rooks pile
// onto the back rank, a previously-recorded K/Q-eligible rook can stop
// being the outer rook, forcing file-letter serialization instead.
func TestChess960ScenarioSixEndToEnd(t *testing.T) {
	startFEN := "1Rb1kb1R/8/8/8/8/3R4/8/2R1K1R1 w KQ - 0 1"
	pos := mustPosition(t, startFEN, false)

	type step struct {
		from, to Square
		flag     MoveFlag
	}
	moves := []step{
		{H8, H1, FlagQuiet},
		{F8, E7, FlagQuiet},
		{D3, D1, FlagQuiet},
		{E7, D8, FlagQuiet},
		{B8, B1, FlagQuiet},
	}
	for _, s := range moves {
		applyMoveByUCI(t, pos, s.from, s.to, s.flag)
	}

	wantFEN := "2bbk3/8/8/8/8/8/8/1RRRK1RR b GC - 5 3"
	if got := pos.ToFEN(); got != wantFEN {
		t.Fatalf("Chess960 scenario final FEN = %q, want %q", got, wantFEN)
	}

	for i := len(moves) - 1; i >= 0; i-- {
		pos.Undo()
	}
	if got := pos.ToFEN(); got != startFEN {
		t.Fatalf("Chess960 scenario undo-to-start FEN = %q, want %q", got, startFEN)
	}
}

func TestShredderFENAlwaysUsesFileLetters(t *testing.T) {
	pos := mustPosition(t, StartFEN, true)
	if got, want := pos.ToFEN(), "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w HAha - 0 1"; got != want {
		t.Fatalf("Shredder-FEN start position = %q, want %q", got, want)
	}
}

func TestBlackToMoveFullmoveNumbering(t *testing.T) {
	pos := mustPosition(t, "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", false)
	if pos.moveNumber() != 8 {
		t.Fatalf("initial fullmove number = %d, want 8", pos.moveNumber())
	}
	applyMoveByUCI(t, pos, D7, D8, FlagPromoteQueenCap)
	if pos.moveNumber() != 8 {
		t.Fatalf("fullmove number after White's move = %d, want still 8", pos.moveNumber())
	}
}

func TestDoubleApplyUndoRestoresHash(t *testing.T) {
	pos := mustPosition(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", false)
	beforeHash := pos.Hash()

	var buf1 MoveList
	GenerateMoves(GenPseudolegal, pos, &buf1)
	m1 := buf1.At(0)
	pos.Apply(m1)

	var buf2 MoveList
	GenerateMoves(GenPseudolegal, pos, &buf2)
	m2 := buf2.At(0)
	pos.Apply(m2)

	pos.Undo()
	pos.Undo()

	if got := pos.Hash(); got != beforeHash {
		t.Fatalf("hash after Apply(m1);Apply(m2);Undo();Undo() = %#x, want %#x", got, beforeHash)
	}
}

func checkBitboardMailboxConsistency(t *testing.T, pos *Position) {
	t.Helper()
	var union Bitboard
	for pc := WhitePawn; pc <= BlackKing; pc++ {
		union |= pos.PieceBB(pc)
		for other := pc + 1; other <= BlackKing; other++ {
			if pos.PieceBB(pc)&pos.PieceBB(other) != 0 {
				t.Fatalf("piece bitboards for %v and %v overlap", pc, other)
			}
		}
	}
	if union != pos.OccupiedBB() {
		t.Fatalf("union of piece bitboards != OccupiedBB")
	}
	for sq := Square(0); sq < 64; sq++ {
		pc := pos.PieceOn(sq)
		if pc == NoPiece {
			if pos.OccupiedBB()&SquareBB(sq) != 0 {
				t.Fatalf("square %s is empty in mailbox but occupied in bitboards", sq)
			}
			continue
		}
		if pos.PieceBB(pc)&SquareBB(sq) == 0 {
			t.Fatalf("mailbox says %v on %s but piece bitboard disagrees", pc, sq)
		}
	}
}

func TestBitboardMailboxConsistencyThroughAMoveSequence(t *testing.T) {
	pos := mustPosition(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", false)
	checkBitboardMailboxConsistency(t, pos)

	var buf MoveList
	GenerateMoves(GenPseudolegal, pos, &buf)
	for _, m := range buf.Moves() {
		pos.Apply(m)
		checkBitboardMailboxConsistency(t, pos)
		pos.Undo()
		checkBitboardMailboxConsistency(t, pos)
	}
}

func TestIsCheckDetectsSliderCheck(t *testing.T) {
	pos := mustPosition(t, "4k3/8/8/8/8/8/8/4K2R w K - 0 1", false)
	if pos.IsCheck(Black) {
		t.Fatalf("black king not in check yet")
	}
	applyMoveByUCI(t, pos, H1, H8, FlagQuiet)
	if !pos.IsCheck(Black) {
		t.Fatalf("rook on h8 should check the black king on e8")
	}
}
