// Package walker performs lazy breadth-first traversal of a directory tree.
//
// A Walker emits one event per visited path in the order the paths are
// discovered: Directory for directories, File for every other path that could
// be stat'ed, Error for any status or listing failure, and exactly one End as
// the final event. Failures are isolated to the path that caused them and the
// walk continues with the rest of the queue.
//
// Only one filesystem operation is outstanding at a time and the walk yields
// to the scheduler between steps, so large trees never monopolise a thread or
// grow the call stack. Events can be consumed as an iterator (Events) or from
// a bounded channel fed by a producer goroutine (Stream).
package walker
