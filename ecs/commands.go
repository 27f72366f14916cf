package ecs

// Defer queues fn to run against w once the active system phase ends,
// or runs it immediately if no phase is active. It is the general escape
// hatch for mutations that don't fit AddComponent/RemoveComponent/
// DespawnEntity directly (e.g. a batch of several related changes that
// must land together at the same flush point).
//
// Go methods can't introduce their own type parameters, so unlike the
// other mutators this one never needs a generic wrapper: fn closes over
// whatever typed values it needs.
func Defer(w *World, fn func(*World)) {
	w.enqueue(fn)
}

// runPhase transitions w into phase, runs fn, returns to Idle, and flushes
// the deferred buffer accumulated during fn. This is the only place phase
// changes happen (Scheduler.Run also flushes once more at the end of a
// tick, before clearing ephemera); the scheduler calls it once per system call
// (before_run/run/after_run), so a system sees every earlier system's
// writes in the same phase but never its own (§4.4, §4.7, §5).
func runPhase(w *World, phase Phase, fn func()) {
	w.phase = phase
	fn()
	w.phase = Idle
	w.flush()
}
