package vars

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// resolveDynamic handles the fixed set of `$`-prefixed dynamic names.
// Unlike every other scope, an unrecognized dynamic name is always an
// error rather than "undefined" — there is no external source it could
// ever be deferred to.
func resolveDynamic(name string) (string, bool, error) {
	switch name {
	case "$timestamp":
		return strconv.FormatInt(time.Now().Unix(), 10), true, nil
	case "$isoTimestamp":
		return time.Now().UTC().Format(time.RFC3339), true, nil
	case "$randomInt":
		return strconv.FormatInt(int64(int32(rand.Uint32())), 10), true, nil
	case "$guid":
		return uuid.NewString(), true, nil
	}
	return "", false, resolutionErrorf(name, "unknown dynamic name")
}
