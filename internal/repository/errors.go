// Package repository defines the bill ledger, the single shared
// mutable store of the system, together with the sentinel errors
// reused across its implementations. These sentinel values allow
// higher layers such as handlers to distinguish between different
// failure scenarios. For example, ErrRoomConflict indicates that an
// insertion would violate the room/time overlap invariant, while
// ErrStaleTransition signals that a racing actor already resolved a
// status transition.
package repository

import "errors"

// ErrNotFound is returned when a bill id does not exist in the
// ledger. Handlers should translate this into an HTTP 404 response;
// it must never be silently ignored.
var ErrNotFound = errors.New("bill not found")

// ErrRoomConflict is returned by Create when the requested room and
// time window overlap an existing non-cancelled bill for that room.
// The earlier candidate computation is advisory; the check at
// insertion time is authoritative. Handlers should translate this
// into an HTTP 409 response.
var ErrRoomConflict = errors.New("room conflict")

// ErrStaleTransition is returned by Transition when the bill's
// current status does not match the expected one. The losing side of
// a race should treat it as a no-op, not a user-facing error.
var ErrStaleTransition = errors.New("stale transition")
