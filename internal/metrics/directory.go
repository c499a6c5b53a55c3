package metrics

import (
	"context"
	"strings"

	"studio-metrics/internal/store"

	"github.com/rs/zerolog/log"
)

// NoPhone is the sentinel shown when a profile has no phone on record.
const NoPhone = "No phone"

// Directory is the process-wide user identity lookup. It is populated
// once and never invalidated; an empty directory is a valid degraded
// state, not an error.
type Directory struct {
	profiles map[string]store.Profile
}

// NewDirectory builds a directory from an already-fetched profile set.
func NewDirectory(profiles []store.Profile) *Directory {
	d := &Directory{profiles: make(map[string]store.Profile, len(profiles))}
	for _, p := range profiles {
		d.profiles[p.ID] = p
	}
	return d
}

// LoadDirectory fetches all profiles once. The profiles table may be
// inaccessible depending on the key's access level, so a failed read
// degrades to an empty directory instead of failing the caller.
func LoadDirectory(ctx context.Context, c store.Client) *Directory {
	profiles, err := c.Profiles(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Profile directory unavailable, using fallback identities")
		profiles = nil
	}
	return NewDirectory(profiles)
}

// Lookup returns the profile for a user id, if known.
func (d *Directory) Lookup(userID string) (store.Profile, bool) {
	p, ok := d.profiles[userID]
	return p, ok
}

// Size returns the number of known profiles.
func (d *Directory) Size() int {
	return len(d.profiles)
}

// DisplayName returns the user's full name, or a deterministic
// "User <id prefix>" fallback when the profile is missing or blank.
func (d *Directory) DisplayName(userID string) string {
	if p, ok := d.profiles[userID]; ok {
		if name := strings.TrimSpace(p.FullName); name != "" {
			return name
		}
	}
	prefix := userID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return "User " + prefix
}

// DisplayPhone returns the user's phone, or the NoPhone sentinel.
func (d *Directory) DisplayPhone(userID string) string {
	if p, ok := d.profiles[userID]; ok {
		if phone := strings.TrimSpace(p.Phone); phone != "" {
			return phone
		}
	}
	return NoPhone
}
