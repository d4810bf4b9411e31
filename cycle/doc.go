// Package cycle finds circular chains of obligation in a debt matrix.
//
// What:
//
//   - Enumerate: every simple directed cycle over the positive edges, using
//     Johnson's algorithm restricted to one strongly connected component per
//     start node. Options cap the number of cycles (WithMaxCycles), their
//     length (WithMaxLength) and bind a context (WithContext).
//   - Bottleneck: the wraparound minimum edge of a cycle, the amount that can
//     be cancelled around the whole ring without driving any edge negative.
//   - ShortestBack: the targeted "two-hop then shortest back" search. Given
//     A and B with a direct edge A → B, it closes the ring along the shortest
//     path from B to A. Cheap compared with full enumeration when the caller
//     already knows two parties of interest.
//
// Canonical form:
//
//   - A Cycle stores each node once; the closing edge back to the first node
//     is implied. Canonicalize drops a trailing repeat; Normalize rotates to
//     the smallest index; Equivalent compares rings up to rotation.
//
// Errors:
//
//   - ErrNilMatrix      nil matrix
//   - ErrNoDirectEdge   ShortestBack with matrix[A][B] == 0
//   - ErrNoPath         ShortestBack with B unable to reach A
//   - ErrInvalidCycle   fewer than two nodes, a repeated node or a missing ring edge
//   - ErrCycleLimit     Enumerate stopped at MaxCycles (partial result returned)
//   - debtmatrix.ErrNodeNotFound for indices or names outside the network
//
// Complexity:
//
//   - Enumerate:    O((V+E)·(C+1)) time, O(V+E) memory
//   - Bottleneck:   O(L)
//   - ShortestBack: O(V²) (one Dijkstra pass)
package cycle
