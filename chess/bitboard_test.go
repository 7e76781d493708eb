package chess

import "testing"

func TestSquareBBRoundTrip(t *testing.T) {
	for sq := Square(0); sq < 64; sq++ {
		bb := SquareBB(sq)
		if bb.PopCount() != 1 {
			t.Fatalf("SquareBB(%s) has popcount %d, want 1", sq, bb.PopCount())
		}
		if bb.LSB() != sq || bb.MSB() != sq {
			t.Fatalf("SquareBB(%s): LSB=%s MSB=%s, want both %s", sq, bb.LSB(), bb.MSB(), sq)
		}
	}
}

func TestShiftWrapsAtFileEdges(t *testing.T) {
	if SquareBB(H1).Shift(DirE) != EmptyBB {
		t.Fatalf("east shift off H1 must vanish, not wrap to A2")
	}
	if SquareBB(A1).Shift(DirW) != EmptyBB {
		t.Fatalf("west shift off A1 must vanish, not wrap to H8/underflow")
	}
	if SquareBB(A4).Shift(DirNWW) != EmptyBB {
		t.Fatalf("NWW off the A-file must vanish (needs 2 files of headroom)")
	}
	if SquareBB(B4).Shift(DirNWW) != EmptyBB {
		t.Fatalf("NWW off the B-file must vanish (needs 2 files of headroom)")
	}
	if got := SquareBB(C4).Shift(DirNWW); got != SquareBB(A5) {
		t.Fatalf("NWW from C4 = %s, want A5", got.LSB())
	}
}

func TestPopLSBDrainsEveryBit(t *testing.T) {
	bb := Rank1BB | Rank8BB
	count := 0
	for bb != EmptyBB {
		bb.PopLSB()
		count++
	}
	if count != 16 {
		t.Fatalf("drained %d squares from two ranks, want 16", count)
	}
}

func TestFillStopsAtBlocker(t *testing.T) {
	origin := SquareBB(A1)
	blockers := SquareBB(D1)
	filled := origin.Fill(DirE, blockers)
	want := SquareBB(A1) | SquareBB(B1) | SquareBB(C1)
	if filled != want {
		t.Fatalf("Fill(E, a1, blockers={d1}) = %v, want %v", filled, want)
	}
	ray := RayAttack(DirE, origin, blockers)
	wantRay := SquareBB(B1) | SquareBB(C1) | SquareBB(D1)
	if ray != wantRay {
		t.Fatalf("RayAttack(E, a1, {d1}) = %v, want %v", ray, wantRay)
	}
}

func TestFlipVerticalIsInvolution(t *testing.T) {
	bb := SquareBB(A1) | SquareBB(H8) | SquareBB(D5)
	if bb.Flip(FlipVertical).Flip(FlipVertical) != bb {
		t.Fatalf("vertical flip is not its own inverse")
	}
	if bb.Flip(FlipHorizontal).Flip(FlipHorizontal) != bb {
		t.Fatalf("horizontal flip is not its own inverse")
	}
	if bb.Flip(FlipDiagonal).Flip(FlipDiagonal) != bb {
		t.Fatalf("diagonal flip is not its own inverse")
	}
	if bb.Flip(FlipAntiDiagonal).Flip(FlipAntiDiagonal) != bb {
		t.Fatalf("anti-diagonal flip is not its own inverse")
	}
}

func TestFlipDiagonalMapsA1ToItself(t *testing.T) {
	a1 := SquareBB(A1)
	if a1.Flip(FlipDiagonal) != a1 {
		t.Fatalf("a1 lies on the main diagonal and must map to itself")
	}
	h1 := SquareBB(H1)
	if h1.Flip(FlipDiagonal) != SquareBB(A8) {
		t.Fatalf("h1 flipped across the main diagonal should land on a8")
	}
}
