// Package timing is the scheduling core: time nodes, time containers and the
// tree builder that creates them from a host document.
//
// # Model
//
// Every timed element implements TimedElement. Leaves are *Node values;
// containers are *Container values that embed a Node and own an ordered list
// of children. A container's Kind selects its composition semantics:
//
//   - Par: every child is scheduled independently against its own interval.
//   - Seq: children chain one after another; at most one is active.
//   - Excl: children run only when explicitly scheduled or selected; at most
//     one is active.
//
// Kinds are plain enum values dispatched to computeIntervals and reconcile,
// not a type hierarchy.
//
// # Time
//
// Times are float64 seconds relative to the owning container's clock.
// math.Inf(1) means indefinite. NaN means unresolved; comparisons against an
// unresolved bound are false, so an unresolved interval is never out of
// bounds and containers degrade to keeping such children open.
//
// # Lifecycle
//
// Nodes move idle -> active -> done and reset back to idle. Each transition
// applies the node's target handler, notifies the Observer and publishes
// begin/end on the bus. Show, Hide and Reset are no-ops when the node is
// already in the requested state; that guard is what keeps re-entrant event
// handlers from recursing.
//
// # Concurrency
//
// A built tree belongs to one goroutine. Clock ticks, navigation and event
// dispatch must all run there; the engine package provides the loop.
package timing
