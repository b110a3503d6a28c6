package vmem

// failureHandler observes every failure constructed by vmem, arena and pool.
// Set before any concurrent use; read without synchronization afterwards.
var failureHandler func(error)

// SetFailureHandler installs h as the process-wide observer for allocation
// failures. A nil h restores the default (errors simply return). A handler
// that panics escalates any failure into a crash at the failure site, which
// is the recommended posture during development:
//
//	vmem.SetFailureHandler(func(err error) { panic(err) })
//
// Call this once during startup, before other goroutines touch vmem.
func SetFailureHandler(h func(error)) {
	failureHandler = h
}

// Fail routes err through the configured failure handler and returns it
// unchanged. The arena and pool packages construct their failures through
// Fail so a single handler observes every failure in the module.
func Fail(err error) error {
	if failureHandler != nil {
		failureHandler(err)
	}
	return err
}
