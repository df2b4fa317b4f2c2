// Package tenant derives stable storage namespaces from community identity.
//
// The namespace key is a pure function of the community name: two requests
// from the same community always resolve to the same key, and distinct
// communities never collide because the guild id is part of the key.
package tenant

import (
	"fmt"
	"strings"

	"github.com/okian/matchdesk/internal/domain/model"
)

// Key is an opaque namespace identifier used to obtain store handles.
type Key string

// Resolve derives the namespace key for a community.
// Normalization: lowercase, spaces to underscores, every other character
// outside [a-z0-9_-] replaced by '-'. The guild id suffix keeps the mapping
// injective even when two communities normalize to the same name.
func Resolve(guildID model.Ref, communityName string) (Key, error) {
	if !guildID.IsSet() {
		return "", ErrUnknownCommunity
	}

	name := normalize(communityName)
	if name == "" {
		name = "community"
	}
	return Key(fmt.Sprintf("%s_%d", name, guildID)), nil
}

func normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
