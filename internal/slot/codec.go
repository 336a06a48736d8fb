package slot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedSlotID reports a slot id that cannot be decoded back to an
// instant.
var ErrMalformedSlotID = errors.New("malformed slot id")

// EncodeID derives the opaque slot identifier from a provider and a UTC
// start instant: slot-<providerID>-<epochMillis>. The identifier is the only
// channel carrying slot timing between the availability response and the
// booking request, so Encode and Decode must be exact inverses.
func EncodeID(providerID string, startUTC time.Time) string {
	return fmt.Sprintf("slot-%s-%d", providerID, startUTC.UnixMilli())
}

// DecodeID recovers the UTC start instant from a slot identifier. The
// trailing segment is taken as the timestamp so provider ids containing the
// delimiter still decode.
func DecodeID(id string) (time.Time, error) {
	parts := strings.Split(id, "-")
	if len(parts) < 3 {
		return time.Time{}, ErrMalformedSlotID
	}
	millis, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return time.Time{}, ErrMalformedSlotID
	}
	return time.UnixMilli(millis).UTC(), nil
}
