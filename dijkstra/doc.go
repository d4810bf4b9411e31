// Package dijkstra provides single-source shortest paths over a debt matrix,
// the routing primitive used to move a value transfer between two parties and
// to close a debt cycle back to its start.
//
// Overview:
//
//   - Only cells M[u][v] > 0 are edges; weights are non-negative by construction
//     of debtmatrix.Matrix, so no negative-weight scan is needed.
//   - From(m, s) runs one relaxation pass and returns a Tree that answers every
//     target; To(m, s, t) stops as soon as t is final and returns one Result.
//   - Distance to the source itself is 0 and its path is [s].
//
// Determinism:
//
//   - The next node to finalize is the unvisited one with the smallest distance,
//     lowest index first. Distances are only replaced by strictly smaller ones.
//     Both rules pin which of several equally short paths is reported.
//
// Error handling (sentinel errors):
//
//   - ErrNilMatrix:   nil matrix.
//   - ErrUnreachable: no directed path to the requested target.
//   - debtmatrix.ErrNodeNotFound: source or target outside 0..n-1.
//   - ErrBadMaxDistance / ErrBadInfThreshold: raised via panic by the option
//     constructors on nonsensical arguments.
//
// Thread safety:
//
//   - Each call works on its own snapshot of the matrix (Matrix.Rows), so a
//     concurrent settlement cannot be observed half-applied.
package dijkstra
