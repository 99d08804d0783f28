package sys

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed community.yaml
var defaultCommunity []byte

// CommunityFile is the on-disk description of the community the bot serves.
// It is read once at startup and never written back.
type CommunityFile struct {
	Timezone            string          `yaml:"timezone"`
	AnnouncementChannel string          `yaml:"announcement_channel"`
	TestChannel         string          `yaml:"test_channel"`
	WelcomeChannel      string          `yaml:"welcome_channel"`
	OrganizerRole       string          `yaml:"organizer_role"`
	Channels            []ChannelEntry  `yaml:"channels"`
	Activities          []string        `yaml:"activities"`
	BannedWords         []string        `yaml:"banned_words"`
	Schedule            []ScheduleEntry `yaml:"schedule"`
}

type ChannelEntry struct {
	Name string `yaml:"name"`
	ID   string `yaml:"id"`
}

// ScheduleEntry binds a fixed weekly time to a named action.
// When is a five-field cron expression such as "0 13 * * MON".
type ScheduleEntry struct {
	Name   string `yaml:"name"`
	When   string `yaml:"when"`
	Action string `yaml:"action"`
}

// LoadCommunity reads the community file at path, or the embedded default
// when path is empty.
func LoadCommunity(path string) (*CommunityFile, error) {
	data := defaultCommunity
	source := "<embedded>"
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf(MsgConfigCommunityRead, path, err)
		}
		data = raw
		source = path
	}

	c, err := ParseCommunity(data)
	if err != nil {
		return nil, fmt.Errorf(MsgConfigCommunityParse, source, err)
	}
	return c, nil
}

// ParseCommunity decodes a community file, rejecting unknown keys.
func ParseCommunity(data []byte) (*CommunityFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c CommunityFile
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *CommunityFile) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(c.Channels))
	for i, ch := range c.Channels {
		name := strings.ToLower(strings.TrimSpace(ch.Name))
		if name == "" {
			errs = append(errs, fmt.Errorf("channels[%d]: name is required", i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("channels[%d]: duplicate name %q", i, name))
		}
		seen[name] = true
		if _, err := strconv.ParseUint(ch.ID, 10, 64); err != nil {
			errs = append(errs, fmt.Errorf("channels[%d]: invalid id %q", i, ch.ID))
		}
	}

	labels := make(map[string]bool, len(c.Activities))
	for i, a := range c.Activities {
		label := strings.ToLower(strings.TrimSpace(a))
		if label == "" {
			errs = append(errs, fmt.Errorf("activities[%d]: label is empty", i))
			continue
		}
		if labels[label] {
			errs = append(errs, fmt.Errorf("activities[%d]: duplicate label %q", i, a))
		}
		labels[label] = true
	}

	for i, s := range c.Schedule {
		if s.When == "" || s.Action == "" {
			errs = append(errs, fmt.Errorf("schedule[%d]: when and action are required", i))
		}
	}

	return errors.Join(errs...)
}
