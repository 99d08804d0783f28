package proc

import (
	"context"
	"testing"
)

func TestDecide(t *testing.T) {
	base := ReactionEvent{UserID: 7, GuildID: 42, ChannelID: 5, MessageID: 9, AuthoredBySelf: true, Emoji: EmojiOrganizer}

	tests := []struct {
		name   string
		mutate func(*ReactionEvent)
		reason string
	}{
		{"organizer", func(*ReactionEvent) {}, ""},
		{"bot user", func(e *ReactionEvent) { e.UserIsBot = true }, ReasonBotUser},
		{"bot user on foreign message", func(e *ReactionEvent) { e.UserIsBot = true; e.AuthoredBySelf = false }, ReasonBotUser},
		{"foreign message", func(e *ReactionEvent) { e.AuthoredBySelf = false }, ReasonNotOwnPoll},
		{"join emoji", func(e *ReactionEvent) { e.Emoji = EmojiJoin }, ReasonNoHandler},
		{"organizer without selector", func(e *ReactionEvent) { e.Emoji = "\U0001F6E0" }, ""},
		{"direct message", func(e *ReactionEvent) { e.GuildID = 0 }, ReasonNoGuild},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := base
			tt.mutate(&ev)
			switch d := Decide(ev).(type) {
			case Ignore:
				if d.Reason != tt.reason {
					t.Errorf("Ignore reason = %q, want %q", d.Reason, tt.reason)
				}
			case ConfirmAndGrant:
				if tt.reason != "" {
					t.Errorf("got ConfirmAndGrant, want Ignore(%q)", tt.reason)
				}
				if d.UserID != 7 || d.GuildID != 42 || d.ChannelID != 5 {
					t.Errorf("ConfirmAndGrant = %+v", d)
				}
			default:
				t.Fatalf("unexpected decision %T", d)
			}
		})
	}
}

func TestAssignerBotReactionsDoNothing(t *testing.T) {
	p := newFakePlatform(5)
	p.roles["Organizer"] = 77
	a := NewAssigner(p, "Organizer")

	a.Handle(context.Background(), ReactionEvent{
		UserID: p.self, UserIsBot: true, GuildID: 42, ChannelID: 5, MessageID: 9,
		AuthoredBySelf: true, Emoji: EmojiOrganizer,
	})
	if len(p.sent) != 0 || len(p.grants) != 0 {
		t.Errorf("bot reaction caused side effects: sent=%v grants=%v", p.sent, p.grants)
	}
}

func TestAssignerConfirmsEveryTimeAndGrantsOnce(t *testing.T) {
	p := newFakePlatform(5)
	p.roles["Organizer"] = 77
	a := NewAssigner(p, "Organizer")
	ev := ReactionEvent{UserID: 7, GuildID: 42, ChannelID: 5, MessageID: 9, AuthoredBySelf: true, Emoji: EmojiOrganizer}

	for i := 0; i < 2; i++ {
		if _, ok := a.Handle(context.Background(), ev).(ConfirmAndGrant); !ok {
			t.Fatalf("attempt %d not granted", i)
		}
	}

	sent := p.sentTo(5)
	if len(sent) != 2 {
		t.Fatalf("got %d confirmations, want 2", len(sent))
	}
	want := "🎉 <@7> is volunteering to be an **organizer** for this week! Thank you! 🛠️"
	for _, m := range sent {
		if m.Content != want {
			t.Errorf("confirmation = %q", m.Content)
		}
	}

	// Both requests target the same (user, role); the member ends up with one role.
	if len(p.grants) != 1 || p.grants[grant{42, 7, 77}] != 2 {
		t.Errorf("grants = %v", p.grants)
	}
}

func TestAssignerMissingRoleStillConfirms(t *testing.T) {
	p := newFakePlatform(5)
	a := NewAssigner(p, "Organizer")

	a.Handle(context.Background(), ReactionEvent{UserID: 7, GuildID: 42, ChannelID: 5, AuthoredBySelf: true, Emoji: EmojiOrganizer})
	if len(p.sentTo(5)) != 1 {
		t.Error("confirmation not sent")
	}
	if len(p.grants) != 0 {
		t.Errorf("grant issued without a role: %v", p.grants)
	}
}
