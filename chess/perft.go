package chess

import (
	"context"

	"golang.org/x/exp/slices"
)

// DivideEntry is one root move's leaf-node contribution, as reported
// by Perft's "divide" breakdown.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// PerftResult holds per-ply move-count statistics from a Perft run.
// Every slice is indexed by ply, 1..depth (index 0 is unused except
// for a depth-0 call, which reports a single leaf at index 0).
//
// Grounded on original_source/include/mpham_chess/perft.hpp's
// perft_result<perft_depth>.
type PerftResult struct {
	Nodes      []uint64
	Captures   []uint64
	EnPassants []uint64
	Castles    []uint64
	Promotions []uint64
	Checks     []uint64
	Divide     []DivideEntry
}

// Perft walks the pseudo-legal move tree rooted at pos to the given
// depth, discarding subtrees where the mover's own king ended up in
// check, and returns per-ply node/capture/en-passant/castle/
// promotion/check counts plus a per-root-move divide breakdown.
//
// ctx is checked once per root move (not per node) so a caller-supplied
// deadline can abort a long enumeration between root moves. A canceled
// context stops generating further root moves; results accumulated so
// far are still returned.
//
// Grounded on original_source/include/mpham_chess/perft.hpp's
// _perft<perft_depth, is_root>.
func Perft(ctx context.Context, depth int, pos *Position) PerftResult {
	res := PerftResult{
		Nodes:      make([]uint64, depth+1),
		Captures:   make([]uint64, depth+1),
		EnPassants: make([]uint64, depth+1),
		Castles:    make([]uint64, depth+1),
		Promotions: make([]uint64, depth+1),
		Checks:     make([]uint64, depth+1),
	}
	if depth == 0 {
		res.Nodes[0] = 1
		return res
	}

	bufs := make([]MoveList, depth+1)
	GenerateMoves(GenPseudolegal, pos, &bufs[depth])

	mover := pos.SideToMove()
	for _, m := range bufs[depth].Moves() {
		select {
		case <-ctx.Done():
			return res
		default:
		}
		pos.Apply(m)
		if !pos.IsCheck(mover) {
			classify(&res, 1, m, pos)
			nodes := perftRecurse(pos, depth-1, depth, bufs, &res)
			res.Divide = append(res.Divide, DivideEntry{Move: m, Nodes: nodes})
		}
		pos.Undo()
	}

	slices.SortFunc(res.Divide, func(a, b DivideEntry) bool { return a.Move < b.Move })
	return res
}

func perftRecurse(pos *Position, depthRemaining, totalDepth int, bufs []MoveList, res *PerftResult) uint64 {
	if depthRemaining == 0 {
		return 1
	}
	ply := totalDepth - depthRemaining + 1
	bufs[depthRemaining].Reset()
	GenerateMoves(GenPseudolegal, pos, &bufs[depthRemaining])

	mover := pos.SideToMove()
	var nodes uint64
	for _, m := range bufs[depthRemaining].Moves() {
		pos.Apply(m)
		if !pos.IsCheck(mover) {
			classify(res, ply, m, pos)
			nodes += perftRecurse(pos, depthRemaining-1, totalDepth, bufs, res)
		}
		pos.Undo()
	}
	return nodes
}

// classify tallies a single legal move at ply, after it has already
// been applied to pos.
func classify(res *PerftResult, ply int, m Move, pos *Position) {
	res.Nodes[ply]++
	if m.IsCapture() {
		res.Captures[ply]++
	}
	if m.IsEnPassant() {
		res.EnPassants[ply]++
	}
	if m.IsCastle() {
		res.Castles[ply]++
	}
	if m.IsPromote() {
		res.Promotions[ply]++
	}
	if pos.IsCheck(pos.SideToMove()) {
		res.Checks[ply]++
	}
}
