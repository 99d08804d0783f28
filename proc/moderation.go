package proc

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/text/cases"

	"github.com/egyptiansgermany/bawab/sys"
)

// DefaultWarningTTL is how long a moderation warning stays visible.
const DefaultWarningTTL = 5 * time.Second

// WordSet holds banned phrases in case-folded form.
type WordSet struct {
	words map[string]struct{}
}

func NewWordSet(words []string) *WordSet {
	fold := cases.Fold()
	ws := &WordSet{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if w == "" {
			continue
		}
		ws.words[fold.String(w)] = struct{}{}
	}
	return ws
}

func (ws *WordSet) Len() int { return len(ws.words) }

// Flags reports whether the whole message content, case-folded, equals a
// banned phrase. Substrings and surrounding whitespace do not match.
func (ws *WordSet) Flags(content string) bool {
	if content == "" {
		return false
	}
	_, ok := ws.words[cases.Fold().String(content)]
	return ok
}

// InboundMessage is the moderation view of a newly created message.
type InboundMessage struct {
	ID          snowflake.ID
	ChannelID   snowflake.ID
	AuthorID    snowflake.ID
	AuthorIsBot bool
	Content     string
}

// Filter removes flagged messages and posts a short-lived warning.
type Filter struct {
	Platform   Platform
	Words      *WordSet
	WarningTTL time.Duration

	// after schedules the warning removal; replaced in tests.
	after func(d time.Duration, f func())
}

func NewFilter(p Platform, words *WordSet) *Filter {
	return &Filter{Platform: p, Words: words, WarningTTL: DefaultWarningTTL}
}

// Handle moderates msg and reports whether it was flagged.
func (f *Filter) Handle(ctx context.Context, msg InboundMessage) bool {
	if msg.AuthorIsBot || !f.Words.Flags(msg.Content) {
		return false
	}

	sys.LogModeration(sys.MsgModerationFlagged, msg.AuthorID, msg.ChannelID)

	if err := f.Platform.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
		sys.LogWarn(sys.MsgModerationDeleteFailed, msg.ID, err)
	}

	warning := fmt.Sprintf("⚠️ <@%s>, watch your language!", msg.AuthorID)
	warnID, err := f.Platform.SendMessage(ctx, msg.ChannelID, warning)
	if err != nil {
		sys.LogWarn(sys.MsgModerationWarnFailed, msg.AuthorID, err)
		return true
	}

	after := f.after
	if after == nil {
		after = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	channelID := msg.ChannelID
	after(f.WarningTTL, func() {
		_ = f.Platform.DeleteMessage(context.WithoutCancel(ctx), channelID, warnID)
	})
	return true
}
