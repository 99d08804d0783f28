package proc

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/egyptiansgermany/bawab/sys"
)

const (
	DefaultPurgeLimit = 100
	MaxPurgeLimit     = 1000
)

// PurgeReport is the outcome of clearing one channel.
type PurgeReport struct {
	Target    Target
	Name      string
	ChannelID snowflake.ID
	Deleted   int
	Skipped   bool
	Err       error
}

// Purger deletes recent messages from directory channels.
type Purger struct {
	Dispatcher *Dispatcher
}

func NewPurger(d *Dispatcher) *Purger {
	return &Purger{Dispatcher: d}
}

// DisplayName title-cases a directory name for user-facing reports.
func DisplayName(name string) string {
	return cases.Title(language.Und).String(name)
}

// Clear removes up to limit of the most recent messages from each target.
// A failure in one channel does not stop the others.
func (p *Purger) Clear(ctx context.Context, targets []Target, limit int) []PurgeReport {
	if limit <= 0 {
		limit = DefaultPurgeLimit
	}
	if limit > MaxPurgeLimit {
		limit = MaxPurgeLimit
	}

	out := make([]PurgeReport, 0, len(targets))
	for _, t := range targets {
		out = append(out, p.clearOne(ctx, t, limit))
	}
	return out
}

func (p *Purger) clearOne(ctx context.Context, t Target, limit int) PurgeReport {
	rep := PurgeReport{Target: t, Name: DisplayName(string(t))}

	ch, ok := p.Dispatcher.Resolve(t)
	if !ok {
		rep.Skipped = true
		rep.Err = ErrUnresolved
		return rep
	}
	rep.ChannelID = ch.ID
	if name, ok := p.Dispatcher.Directory.NameOf(ch.ID); ok {
		rep.Name = DisplayName(name)
	}

	pl := p.Dispatcher.Platform
	msgs, err := pl.RecentMessages(ctx, ch.ID, limit)
	if err != nil {
		sys.LogWarn(sys.MsgPurgeFailed, t, err)
		rep.Err = err
		return rep
	}
	if len(msgs) == 0 {
		return rep
	}

	rep.Deleted, err = pl.DeleteMessages(ctx, ch.ID, msgs)
	if err != nil {
		sys.LogWarn(sys.MsgPurgeFailed, t, err)
		rep.Err = err
	}
	return rep
}
