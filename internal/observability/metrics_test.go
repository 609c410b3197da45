package observability

import (
	"testing"
	"time"
)

func TestRecordHelpersDoNotPanic(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()
	RecordHTTPRequest("relay.test", "GET", "/health", 200, 5*time.Millisecond)
	RecordConnection("relay.test")
	RecordFrame("relay.test", "success", 13)
	RecordFrame("relay.test", "error", 41)
	RecordFetch("relay.test", "success", 20*time.Millisecond)
}
