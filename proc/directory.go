package proc

import (
	"fmt"
	"strings"

	"github.com/disgoorg/snowflake/v2"
)

// Target names a destination channel, either by directory name or as a
// literal channel id.
type Target string

// DirectoryEntry pairs a logical name with the channel it points at.
type DirectoryEntry struct {
	Name      string
	ChannelID snowflake.ID
}

// Directory is an ordered, immutable set of named channels.
type Directory struct {
	entries []DirectoryEntry
	byName  map[string]snowflake.ID
}

func NewDirectory(entries []DirectoryEntry) (*Directory, error) {
	d := &Directory{
		entries: make([]DirectoryEntry, 0, len(entries)),
		byName:  make(map[string]snowflake.ID, len(entries)),
	}
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Name))
		if key == "" {
			return nil, fmt.Errorf("directory entry for %s has no name", e.ChannelID)
		}
		if _, dup := d.byName[key]; dup {
			return nil, fmt.Errorf("duplicate directory entry %q", e.Name)
		}
		d.byName[key] = e.ChannelID
		d.entries = append(d.entries, DirectoryEntry{Name: key, ChannelID: e.ChannelID})
	}
	return d, nil
}

// Entries returns a copy of the directory in configured order.
func (d *Directory) Entries() []DirectoryEntry {
	out := make([]DirectoryEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Targets returns every entry as a Target, in configured order.
func (d *Directory) Targets() []Target {
	out := make([]Target, len(d.entries))
	for i, e := range d.entries {
		out[i] = Target(e.Name)
	}
	return out
}

func (d *Directory) Len() int { return len(d.entries) }

// Resolve maps a target to a channel id. Names are looked up case-insensitively;
// anything that parses as a snowflake is taken literally.
func (d *Directory) Resolve(t Target) (snowflake.ID, bool) {
	key := strings.ToLower(strings.TrimSpace(string(t)))
	if id, ok := d.byName[key]; ok {
		return id, true
	}
	if id, err := snowflake.Parse(key); err == nil && id != 0 {
		return id, true
	}
	return 0, false
}

// NameOf returns the directory name for a channel id, if any.
func (d *Directory) NameOf(id snowflake.ID) (string, bool) {
	for _, e := range d.entries {
		if e.ChannelID == id {
			return e.Name, true
		}
	}
	return "", false
}
