package cache

import (
	"fmt"
	"regexp"
	"strings"

	"Bookstore_API/internal/models"
)

// compilePattern turns an invalidation pattern into an anchored regexp.
// '*' matches any run of characters (including none); everything else is
// literal, so "books:*" matches "books:list" and "books:" but not "books".
func compilePattern(pattern string) (*regexp.Regexp, error) {
	parts := strings.Split(pattern, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}

	re, err := regexp.Compile(`(?s)^` + strings.Join(parts, ".*") + `$`)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", models.ErrInvalidPattern, pattern, err)
	}
	return re, nil
}

// MatchPattern reports whether key matches an invalidation pattern
func MatchPattern(pattern, key string) (bool, error) {
	re, err := compilePattern(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(key), nil
}

var redisGlobEscaper = strings.NewReplacer(
	`\`, `\\`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

// toRedisGlob converts an invalidation pattern into a Redis SCAN MATCH glob
// with the same meaning: only '*' stays special.
func toRedisGlob(pattern string) string {
	return redisGlobEscaper.Replace(pattern)
}
