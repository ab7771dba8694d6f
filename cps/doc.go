// Package cps implements the suspend/resume transform: a five-pass
// whole-tree analysis that finds suspension points, marks their
// ancestor chains and enclosing loops, and physically restructures
// sequential statement blocks into nested continuation closures by
// rotating each block around its first pivot.
//
// The passes run in strict order because each reads flags written by
// the previous one:
//
//  1. MarkSuspensions      suspension discovery, bottom-up
//  2. FloodLoops           tamed-loop flag flood, top-down
//  3. MarkPivots           pivot marking over the suspension marks
//  4. MarkImplicitCallbacks lexical implicit-callback availability
//  5. Rotate               tree rotation and continuation attachment
//
// All annotations live in a Marks side table keyed by node identity;
// the tree's shape is only mutated by Rotate.
package cps
