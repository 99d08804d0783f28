package proc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/egyptiansgermany/bawab/sys"
)

// ErrInvalidPoll is returned for a poll with no options or repeated emoji.
var ErrInvalidPoll = errors.New("invalid poll definition")

const (
	EmojiOrganizer = "🛠️"
	EmojiJoin      = "✅"

	// ActivityChoices is how many catalog labels go into one activity poll.
	ActivityChoices = 3
	OtherLabel      = "Other ❓"
)

var numberEmoji = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣"}

type PollOption struct {
	Emoji string
	Label string
}

// PollDefinition is a message body plus the reactions voters use.
type PollDefinition struct {
	Intro   string
	Options []PollOption
	Outro   string
}

func (p PollDefinition) Validate() error {
	if len(p.Options) == 0 {
		return fmt.Errorf("%w: no options", ErrInvalidPoll)
	}
	seen := make(map[string]bool, len(p.Options))
	for _, o := range p.Options {
		if o.Emoji == "" {
			return fmt.Errorf("%w: option %q has no emoji", ErrInvalidPoll, o.Label)
		}
		if seen[o.Emoji] {
			return fmt.Errorf("%w: emoji %s used twice", ErrInvalidPoll, o.Emoji)
		}
		seen[o.Emoji] = true
	}
	return nil
}

// Render lays the poll out as intro, one "emoji label" line per option, outro.
func (p PollDefinition) Render() string {
	var b strings.Builder
	b.WriteString(p.Intro)
	for _, o := range p.Options {
		b.WriteString("\n")
		b.WriteString(o.Emoji)
		b.WriteString(" ")
		b.WriteString(o.Label)
	}
	if p.Outro != "" {
		b.WriteString("\n")
		b.WriteString(p.Outro)
	}
	return b.String()
}

// OrganizerPoll asks who will organize this week's meetup and who will join.
func OrganizerPoll() PollDefinition {
	return PollDefinition{
		Intro: "👋 Happy Monday everyone! Hope you had a great weekend.\n" +
			"Who wants to **organize** this week's meetup, and who just wants to **join**?\n\n" +
			"React below:",
		Options: []PollOption{
			{Emoji: EmojiOrganizer, Label: "Organizer"},
			{Emoji: EmojiJoin, Label: "Join"},
		},
	}
}

// ActivityPoll samples fresh activity ideas from the catalog and appends a
// catch-all option.
func ActivityPoll(c *Catalog) (PollDefinition, error) {
	labels, err := c.Sample(ActivityChoices)
	if err != nil {
		return PollDefinition{}, err
	}

	opts := make([]PollOption, 0, len(labels)+1)
	for i, l := range labels {
		opts = append(opts, PollOption{Emoji: numberEmoji[i], Label: l})
	}
	opts = append(opts, PollOption{Emoji: numberEmoji[len(labels)], Label: OtherLabel})

	return PollDefinition{
		Intro:   "🎉 Here’s a **fun poll** to give you some ideas for next weekend:",
		Options: opts,
		Outro:   "React with your favorite!",
	}, nil
}

// PollEngine posts polls through a Dispatcher.
type PollEngine struct {
	Dispatcher *Dispatcher
	Catalog    *Catalog
}

func NewPollEngine(d *Dispatcher, c *Catalog) *PollEngine {
	return &PollEngine{Dispatcher: d, Catalog: c}
}

// Post sends one poll to one target and attaches its emoji in order. The first
// failed reaction stops the rest so the visible order matches the listed one.
func (e *PollEngine) Post(ctx context.Context, t Target, def PollDefinition) Delivery {
	if err := def.Validate(); err != nil {
		return Delivery{Target: t, Err: err}
	}

	del := e.Dispatcher.sendOne(ctx, t, def.Render())
	if !del.Sent() {
		return del
	}

	p := e.Dispatcher.Platform
	for _, o := range def.Options {
		if err := p.AddReaction(ctx, del.ChannelID, del.MessageID, o.Emoji); err != nil {
			sys.LogWarn(sys.MsgPollReactFailed, o.Emoji, t, err)
			del.Err = fmt.Errorf("react %s: %w", o.Emoji, err)
			break
		}
	}
	return del
}

// SendOrganizerPolls posts the organizer poll to every target.
func (e *PollEngine) SendOrganizerPolls(ctx context.Context, targets []Target) []Delivery {
	def := OrganizerPoll()
	out := make([]Delivery, 0, len(targets))
	for _, t := range targets {
		out = append(out, e.Post(ctx, t, def))
	}
	e.logSummary("Organizer", out)
	return out
}

// SendActivityPolls posts an activity poll to every target, sampling a new
// set of activities for each channel.
func (e *PollEngine) SendActivityPolls(ctx context.Context, targets []Target) []Delivery {
	out := make([]Delivery, 0, len(targets))
	for _, t := range targets {
		def, err := ActivityPoll(e.Catalog)
		if err != nil {
			sys.LogError(sys.MsgPollBuildFailed, t, err)
			out = append(out, Delivery{Target: t, Err: err})
			continue
		}
		out = append(out, e.Post(ctx, t, def))
	}
	e.logSummary("Activity", out)
	return out
}

// SendWeeklyPolls posts the organizer poll to every target, then the
// activity poll to every target.
func (e *PollEngine) SendWeeklyPolls(ctx context.Context, targets []Target) []Delivery {
	out := e.SendOrganizerPolls(ctx, targets)
	return append(out, e.SendActivityPolls(ctx, targets)...)
}

func (e *PollEngine) logSummary(kind string, ds []Delivery) {
	s := Summarize(ds)
	sys.LogPoll(sys.MsgPollFinished, kind, s.Sent, s.Skipped, s.Failed)
}
