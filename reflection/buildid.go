package reflection

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// buildIDs stamps every extraction. Monotonic entropy is not safe for concurrent
// use, hence the mutex.
var buildIDs = struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}{entropy: ulid.Monotonic(rand.Reader, 0)}

func newBuildID() ulid.ULID {
	buildIDs.mu.Lock()
	defer buildIDs.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), buildIDs.entropy)
}
