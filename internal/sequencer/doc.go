// Package sequencer linearizes a dependency graph into a LoadOrder.
//
// The algorithm is a recursive depth-first topological sort:
//
//  1. visit(ref) expands folder references to the files directly inside the
//     folder, in scan order.
//  2. Files already emitted are skipped, which handles diamonds.
//  3. A file met again while it is still on the in-progress stack is a
//     cycle; the stack plus the re-entered file is reported.
//  4. Dependencies are visited in directive order and the file is emitted
//     after them (post-order).
//
// Three passes drive visit: every lead entry, then every remaining file in
// scan order, then every trail entry. Lead files therefore come first and
// trail files last unless a dependency edge pulls one across the boundary;
// dependency edges always win, and the crossing is logged.
//
// Recursion depth is bounded by the longest dependency chain because the
// in-progress check runs before descending.
package sequencer
