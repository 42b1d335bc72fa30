package offthread

import "time"

// sleepBriefly yields the collector goroutine when its ring is empty,
// so the background cleanup thread doesn't spin a full core.
func sleepBriefly() {
	time.Sleep(200 * time.Microsecond)
}
