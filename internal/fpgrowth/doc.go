// Package fpgrowth mines frequent itemsets from a boolean transaction matrix
// with the FP-Growth algorithm.
//
// The transactions are first compressed into an FP-tree: every transaction's
// frequent items are sorted by descending global frequency (ties broken by
// column index) and inserted as a path from the root, so transactions sharing
// a prefix share nodes. Nodes live in a flat arena and each item owns a
// header chain linking all of its nodes.
//
// Mining walks items from least to most frequent. For each item it emits
// suffix ∪ {item}, collects the item's prefix paths (its conditional pattern
// base), builds a conditional tree from the paths' frequent items and recurses
// into it. No candidate itemsets are generated.
//
// Determinism: for a fixed matrix and threshold the result is identical
// between runs, including order. Itemsets are returned sorted by size, then
// by descending support, then by item names.
package fpgrowth
