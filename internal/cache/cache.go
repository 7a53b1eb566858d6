// Package cache memoizes tool results keyed by operation name and
// normalized arguments, with a configurable time-to-live. It is a wrapping
// concern: the dispatcher stays correct with no cache at all.
package cache

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Store is a TTL'd key→value memoizer.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// Key derives a deterministic cache key from an operation name and its
// normalized arguments. Argument keys are sorted so equivalent argument sets
// hash identically regardless of map order.
func Key(operation string, args map[string]interface{}) string {
	if len(args) == 0 {
		return operation
	}

	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(operation)
	for _, name := range names {
		b.WriteByte(':')
		b.WriteString(name)
		b.WriteByte('=')
		// Arguments are JSON-compatible scalars after normalization.
		encoded, err := json.Marshal(args[name])
		if err != nil {
			b.WriteString("?")
			continue
		}
		b.Write(encoded)
	}
	return b.String()
}
