package api

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// SelfID is the path segment addressing the authenticated member.
const SelfID = "~"

// UserRef identifies a member by public profile URL or numeric id.
type UserRef struct {
	URL string
	ID  int64
}

// ResolveUser turns ref into a people path segment. URL wins over ID; a nil
// or empty ref addresses the authenticated member.
func ResolveUser(ref *UserRef) string {
	if ref == nil {
		return SelfID
	}
	if ref.URL != "" {
		return "url=" + url.QueryEscape(ref.URL)
	}
	if ref.ID != 0 {
		return "id=" + strconv.FormatInt(ref.ID, 10)
	}
	return SelfID
}

// ResolveUserParam is the loose form of ResolveUser. It accepts nil, a
// string (returned as is), a UserRef or *UserRef, or a map with "url"
// and/or "id" keys. Unrecognized shapes resolve to SelfID; it never fails.
func ResolveUserParam(v any) string {
	switch u := v.(type) {
	case nil:
		return SelfID
	case string:
		if u == "" {
			return SelfID
		}
		return u
	case UserRef:
		return ResolveUser(&u)
	case *UserRef:
		return ResolveUser(u)
	case map[string]any:
		return resolveUserMap(u)
	case map[string]string:
		m := make(map[string]any, len(u))
		for k, val := range u {
			m[k] = val
		}
		return resolveUserMap(m)
	default:
		return SelfID
	}
}

// resolveUserMap honours key presence: a "url" key wins even when empty,
// and an explicit "id" of 0 still resolves to "id=0".
func resolveUserMap(m map[string]any) string {
	if raw, ok := m["url"]; ok && raw != nil {
		return "url=" + url.QueryEscape(fmt.Sprint(raw))
	}
	if raw, ok := m["id"]; ok && raw != nil {
		return "id=" + strconv.FormatInt(toInt(raw), 10)
	}
	return SelfID
}

// toInt coerces an id value the way an integer cast would: numeric
// strings parse, unparseable values become 0.
func toInt(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		if n > math.MaxInt64 {
			return 0
		}
		return int64(n)
	case float64:
		return int64(n)
	case float32:
		return int64(n)
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int64(f)
		}
		return 0
	default:
		return 0
	}
}
