// Package settlement produces and applies settlements over a debt matrix.
//
// Two independent strategies:
//
//   - NetBalance: global netting. Creditors and debtors are matched greedily
//     by size to produce at most n-1 direct transfers that zero every net
//     balance. The matrix itself is never modified.
//   - ForCycle / ApplyCycle: cancel the bottleneck amount around one cycle.
//     ApplyCycle is the only operation in this module that mutates a matrix;
//     it validates the whole ring before its first write.
//
// Condonations restates a settlement from the creditor's side ("Pilar
// forgives Pedro 10"), the framing used for outgoing notices.
package settlement
