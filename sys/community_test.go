package sys

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEmbeddedCommunity(t *testing.T) {
	c, err := LoadCommunity("")
	if err != nil {
		t.Fatalf("LoadCommunity: %v", err)
	}
	if len(c.Channels) != 20 {
		t.Errorf("channels = %d, want 20", len(c.Channels))
	}
	if c.Channels[0].Name != "mannheim-heidelberg" || c.Channels[19].Name != "duisburg" {
		t.Errorf("channel order changed: first=%q last=%q", c.Channels[0].Name, c.Channels[19].Name)
	}
	if len(c.Activities) != 16 || len(c.BannedWords) != 9 || len(c.Schedule) != 3 {
		t.Errorf("activities=%d banned=%d schedule=%d", len(c.Activities), len(c.BannedWords), len(c.Schedule))
	}
	if c.Timezone != "Europe/Berlin" || c.OrganizerRole != "Organizer" {
		t.Errorf("timezone=%q role=%q", c.Timezone, c.OrganizerRole)
	}
}

func TestParseCommunityErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown key", "timezone: UTC\ncolour: red\n", "colour"},
		{"bad id", "channels:\n  - {name: bonn, id: nope}\n", "invalid id"},
		{"duplicate", "channels:\n  - {name: bonn, id: \"1\"}\n  - {name: bonn, id: \"2\"}\n", "duplicate"},
		{"duplicate differing in case", "channels:\n  - {name: Hamburg, id: \"1\"}\n  - {name: hamburg, id: \"2\"}\n", "duplicate name"},
		{"duplicate activity", "activities: [Bowling, Bowling, Bowling, Karaoke]\n", "duplicate label"},
		{"empty activity", "activities: [Bowling, \" \"]\n", "label is empty"},
		{"empty schedule", "schedule:\n  - {name: x}\n", "when and action"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCommunity([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadCommunityFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "community.yaml")
	data := "timezone: UTC\nchannels:\n  - {name: bonn, id: \"1417956058214961304\"}\nactivities: [a, b, c, d]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCommunity(path)
	if err != nil {
		t.Fatalf("LoadCommunity: %v", err)
	}
	if c.Timezone != "UTC" || len(c.Channels) != 1 || len(c.Activities) != 4 {
		t.Errorf("loaded %+v", c)
	}

	if _, err := LoadCommunity(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}
