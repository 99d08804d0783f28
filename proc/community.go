package proc

import (
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/egyptiansgermany/bawab/sys"
)

// Target set names used by commands and stored announcements.
const (
	SetAnnouncement = "announcement"
	SetCities       = "cities"
	SetTest         = "test"
)

// Community is the immutable, parsed form of the community file.
type Community struct {
	Directory     *Directory
	Catalog       *Catalog
	Words         *WordSet
	Location      *time.Location
	Announcement  Target
	Test          Target
	WelcomeName   string
	OrganizerRole string
	Schedule      []sys.ScheduleEntry
}

// NewCommunity validates a community file and builds its runtime form.
func NewCommunity(f *sys.CommunityFile, loc *time.Location) (*Community, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	for _, a := range f.Activities {
		if reservedLabel(a) {
			return nil, fmt.Errorf("activity %q is reserved for the poll's last option", a)
		}
	}

	entries := make([]DirectoryEntry, 0, len(f.Channels))
	for _, ch := range f.Channels {
		id, err := snowflake.Parse(ch.ID)
		if err != nil {
			return nil, fmt.Errorf("channel %q: %w", ch.Name, err)
		}
		entries = append(entries, DirectoryEntry{Name: ch.Name, ChannelID: id})
	}
	dir, err := NewDirectory(entries)
	if err != nil {
		return nil, err
	}

	catalog := NewCatalog(f.Activities)
	if catalog.Len() <= ActivityChoices {
		return nil, fmt.Errorf("%w: %d activities, need more than %d", ErrCatalogTooSmall, catalog.Len(), ActivityChoices)
	}

	if loc == nil {
		loc = time.UTC
	}

	return &Community{
		Directory:     dir,
		Catalog:       catalog,
		Words:         NewWordSet(f.BannedWords),
		Location:      loc,
		Announcement:  Target(f.AnnouncementChannel),
		Test:          Target(f.TestChannel),
		WelcomeName:   f.WelcomeChannel,
		OrganizerRole: f.OrganizerRole,
		Schedule:      f.Schedule,
	}, nil
}

// reservedLabel reports whether a catalog label would collide with OtherLabel.
func reservedLabel(label string) bool {
	l := strings.TrimSpace(label)
	return strings.EqualFold(l, OtherLabel) || strings.EqualFold(l, "Other")
}

// TargetSets maps each set name to its targets.
func (c *Community) TargetSets() map[string][]Target {
	return map[string][]Target{
		SetAnnouncement: {c.Announcement},
		SetCities:       c.Directory.Targets(),
		SetTest:         {c.Test},
	}
}
