// Package matchfilter builds the per-candidate accept/reject predicate the
// retrieval engine consults before acquiring an item.
//
// A predicate is a first-class value closed over immutable state (the
// publication-date boundary and, optionally, the completed-broadcast
// status set), so it carries no globals, tolerates concurrent invocation,
// and is trivially unit-testable away from the engine.
package matchfilter
