// Package offthread holds everything that is only ever allowed to run
// off the realtime audio thread: structured logging and the deferred-drop
// collector for resources the audio thread retires but must never free
// itself (spec.md §5, §9 "Deferred drop").
package offthread

import (
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the process-wide structured logger for everything outside
// the audio callback: the track loader, the deferred-drop collector,
// and command-rejection diagnostics. The audio thread never touches it
// directly; internal/rtlog's pre-allocated trace ring is its only
// logging surface, and nothing forwards that ring's entries to this
// logger.
var Logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	ReportCaller:    false,
	Prefix:          "deckengine",
})
