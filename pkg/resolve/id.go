package resolve

import "github.com/google/uuid"

// IsCanonicalID reports whether s already has the canonical ID shape: exactly
// 36 characters, hyphens at positions 8, 13, 18, and 23, hex digits
// everywhere else. The resolver returns such strings verbatim without
// consulting the cache or the network.
//
// This is a pure string-shape test. uuid.Parse alone is too permissive (it
// accepts braced, hyphenless, and URN forms), so the length and hyphen
// positions are checked explicitly first.
func IsCanonicalID(s string) bool {
	if len(s) != 36 {
		return false
	}
	if s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
