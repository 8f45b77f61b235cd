// Package scrim provides overlay components for terminal UIs: modals,
// drawers, dropdowns and toasts, built on a small element tree with
// focus trapping, scoped style restoration and reference-counted scroll
// locking. Components are driven by a Scheduler so the same code runs
// under a real timer loop, a bubbletea program, or a manual clock in tests.
package scrim

import "log"

// Warnf reports recoverable misuse, such as dismissing a toast that no
// longer exists or mounting an unregistered component name. The default
// writes to the standard logger; set to nil to silence warnings.
var Warnf = func(format string, args ...any) {
	log.Printf("scrim: "+format, args...)
}

func warnf(format string, args ...any) {
	if Warnf != nil {
		Warnf(format, args...)
	}
}
