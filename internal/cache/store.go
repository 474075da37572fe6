// Package cache is the process-wide TTL cache shared by the storefront
// adapters. Values are opaque bytes; see GetJSON/SetJSON/Remember for typed use.
package cache

import (
	"context"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"
)

type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Invalidate removes every key matching a glob pattern ('*' any run,
	// '?' one character) and returns how many were removed.
	Invalidate(ctx context.Context, pattern string) (int, error)
}

// Key builds a deterministic key such as "steam:search:q=portal".
func Key(provider, method string, parts map[string]string) string {
	sb := strings.Builder{}
	sb.WriteString(provider)
	sb.WriteString(":")
	sb.WriteString(method)
	if len(parts) > 0 {
		keys := make([]string, 0, len(parts))
		for k := range parts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(":")
			sb.WriteString(k)
			sb.WriteString("=")
			sb.WriteString(sanitize(parts[k]))
		}
	}
	return sb.String()
}

// sanitize folds case and percent-escapes the value, so glob metacharacters
// and the ':' / '=' separators never appear raw in a key and distinct values
// keep distinct keys.
func sanitize(v string) string {
	return url.QueryEscape(strings.ToLower(strings.TrimSpace(v)))
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(pattern)
	quoted = strings.ReplaceAll(quoted, `\*`, ".*")
	quoted = strings.ReplaceAll(quoted, `\?`, ".")
	return regexp.Compile("^" + quoted + "$")
}

func namespace(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "default"
}
