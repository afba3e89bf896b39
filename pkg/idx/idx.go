package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a ULID in canonical string form. The CLI uses it for stored token
// rows and for the request ids sent to Casdoor.
type ID string

const Zero ID = ""

var ErrInvalid = errors.New("idx: invalid ulid")

// One monotonic source for the process: ids minted in the same millisecond
// still sort in creation order.
var mu sync.Mutex

var entropy = sync.OnceValue(func() *ulid.MonotonicEntropy {
	return ulid.Monotonic(rand.Reader, 0)
})

// New returns an ID for the current UTC time.
func New() ID {
	return NewAt(time.Now().UTC())
}

// NewAt returns an ID stamped with t.
func NewAt(t time.Time) ID {
	mu.Lock()
	defer mu.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(t), entropy()).String())
}

// Parse validates s as a ULID, ignoring surrounding space.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if _, err := ulid.ParseStrict(s); err != nil {
		return Zero, ErrInvalid
	}
	return ID(s), nil
}

func (id ID) IsZero() bool   { return id == Zero }
func (id ID) String() string { return string(id) }

// Time is the embedded UTC timestamp, or the zero time for an invalid id.
func (id ID) Time() time.Time {
	u, err := ulid.ParseStrict(string(id))
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time()).UTC()
}
