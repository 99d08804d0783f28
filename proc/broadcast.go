package proc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/time/rate"

	"github.com/egyptiansgermany/bawab/sys"
)

const DefaultAnnouncementTitle = "Announcement"

// Default fan-out pacing: a steady 5 sends per second with a small burst,
// comfortably under the per-route limits of the REST API.
const (
	defaultSendRate  = 5
	defaultSendBurst = 5
)

// Delivery is the outcome of one target in a fan-out.
type Delivery struct {
	Target    Target
	ChannelID snowflake.ID
	MessageID snowflake.ID
	Skipped   bool
	Err       error
}

func (d Delivery) Sent() bool { return !d.Skipped && d.Err == nil }

// Summary counts the outcomes of a fan-out.
type Summary struct {
	Sent    int
	Skipped int
	Failed  int
}

func Summarize(ds []Delivery) Summary {
	var s Summary
	for _, d := range ds {
		switch {
		case d.Skipped:
			s.Skipped++
		case d.Err != nil:
			s.Failed++
		default:
			s.Sent++
		}
	}
	return s
}

func (s Summary) Clean() bool { return s.Skipped == 0 && s.Failed == 0 }

// Dispatcher fans a message out to targets in order, one at a time.
type Dispatcher struct {
	Platform  Platform
	Directory *Directory
	Limiter   *rate.Limiter
}

func NewDispatcher(p Platform, dir *Directory) *Dispatcher {
	return &Dispatcher{
		Platform:  p,
		Directory: dir,
		Limiter:   rate.NewLimiter(rate.Every(time.Second/defaultSendRate), defaultSendBurst),
	}
}

// Resolve turns a target into a live channel. A target that is not in the
// directory, or whose channel no longer exists, is unresolved.
func (d *Dispatcher) Resolve(t Target) (Channel, bool) {
	id, ok := d.Directory.Resolve(t)
	if !ok {
		return Channel{}, false
	}
	return d.Platform.ResolveChannel(id)
}

// wait paces the next send. A nil limiter means no pacing.
func (d *Dispatcher) wait(ctx context.Context) error {
	if d.Limiter == nil {
		return nil
	}
	return d.Limiter.Wait(ctx)
}

// FormatAnnouncement renders a titled announcement body.
func FormatAnnouncement(title, body string) string {
	if strings.TrimSpace(title) == "" {
		title = DefaultAnnouncementTitle
	}
	return fmt.Sprintf("📢 **%s**\n%s", title, body)
}

// Announce sends a titled announcement to every target.
func (d *Dispatcher) Announce(ctx context.Context, title, body string, targets []Target) []Delivery {
	if strings.TrimSpace(title) == "" {
		title = DefaultAnnouncementTitle
	}
	out := d.Send(ctx, FormatAnnouncement(title, body), targets)
	s := Summarize(out)
	sys.LogBroadcast(sys.MsgBroadcastFinished, title, s.Sent, s.Skipped, s.Failed)
	return out
}

// Send delivers content verbatim to every target. It never stops early:
// unresolvable targets are skipped and send errors are recorded per target.
func (d *Dispatcher) Send(ctx context.Context, content string, targets []Target) []Delivery {
	out := make([]Delivery, 0, len(targets))
	for _, t := range targets {
		out = append(out, d.sendOne(ctx, t, content))
	}
	return out
}

func (d *Dispatcher) sendOne(ctx context.Context, t Target, content string) Delivery {
	ch, ok := d.Resolve(t)
	if !ok {
		sys.LogBroadcast(sys.MsgBroadcastSkipped, t)
		return Delivery{Target: t, Skipped: true, Err: ErrUnresolved}
	}

	del := Delivery{Target: t, ChannelID: ch.ID}
	if err := d.wait(ctx); err != nil {
		del.Err = err
		return del
	}

	msgID, err := d.Platform.SendMessage(ctx, ch.ID, content)
	if err != nil {
		sys.LogWarn(sys.MsgBroadcastFailed, t, ch.ID, err)
		del.Err = err
		return del
	}
	del.MessageID = msgID
	return del
}
