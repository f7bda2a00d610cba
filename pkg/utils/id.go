package utils

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var idSeq uint64

// GenMessageID generates a unique message ID from the current UTC nanosecond
// timestamp and an atomic sequence number. The sequence keeps ids unique
// when several messages share a nanosecond.
func GenMessageID() string {
	n := time.Now().UTC().UnixNano()
	s := atomic.AddUint64(&idSeq, 1)
	return fmt.Sprintf("msg-%d-%d", n, s)
}

// GenThreadID generates a unique thread ID, format "thread-<ts>-<seq>".
func GenThreadID() string {
	n := time.Now().UTC().UnixNano()
	s := atomic.AddUint64(&idSeq, 1)
	return fmt.Sprintf("thread-%d-%d", n, s)
}

// GenExternalID mints an id for records handed to external systems (task
// and RFI trackers, exports). UUIDs travel better across system boundaries
// than our timestamp ids.
func GenExternalID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Now returns the current time in UTC truncated to microseconds so values
// survive a JSON round-trip through RFC3339 encoding unchanged.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// ISO8601 formats t as an RFC3339/ISO8601 UTC string.
func ISO8601(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
