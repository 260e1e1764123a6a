package utils

import (
	"crypto/md5"
	"fmt"
	"sort"
	"strings"
)

// Keys longer than this collapse to a short hash so Redis key space stays
// readable for the common case.
const maxPlainKeyLength = 100

// BuildCacheKey builds a deterministic cache key from a prefix and named
// parameters. Parameters are sorted by name and empty values are skipped,
// so semantically equal requests land on the same key.
func BuildCacheKey(prefix string, params map[string]string) string {
	names := make([]string, 0, len(params))
	for name, value := range params {
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names)+1)
	parts = append(parts, prefix)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s:%s", name, params[name]))
	}
	key := strings.Join(parts, "|")

	if len(key) > maxPlainKeyLength {
		hash := fmt.Sprintf("%x", md5.Sum([]byte(key)))[:8]
		return fmt.Sprintf("%s:%s", prefix, hash)
	}
	return key
}
