package proc

import (
	"context"
	"testing"
	"time"
)

var bannedWords = []string{"a7a", "kosom", "metnak", "zeby", "manyak", "m3rs", "a7eh", "sharmoot", "5awal"}

func TestWordSetFlags(t *testing.T) {
	ws := NewWordSet(bannedWords)

	tests := []struct {
		content string
		want    bool
	}{
		{"a7a", true},
		{"A7A", true},
		{"Kosom", true},
		{"a7a123", false},
		{"haha7a", false},
		{"a7a ", false},
		{" a7a", false},
		{"you a7a", false},
		{"", false},
		{"hello", false},
	}
	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			if got := ws.Flags(tt.content); got != tt.want {
				t.Errorf("Flags(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestFilterRemovesAndWarns(t *testing.T) {
	p := newFakePlatform(10)
	f := NewFilter(p, NewWordSet(bannedWords))

	var scheduled time.Duration
	var cleanup func()
	f.after = func(d time.Duration, fn func()) {
		scheduled = d
		cleanup = fn
	}

	flagged := f.Handle(context.Background(), InboundMessage{ID: 55, ChannelID: 10, AuthorID: 7, Content: "A7A"})
	if !flagged {
		t.Fatal("expected message to be flagged")
	}
	if len(p.deleted) != 1 || p.deleted[0] != 55 {
		t.Fatalf("deleted = %v, want [55]", p.deleted)
	}

	sent := p.sentTo(10)
	if len(sent) != 1 || sent[0].Content != "⚠️ <@7>, watch your language!" {
		t.Fatalf("warning = %+v", sent)
	}
	if scheduled != DefaultWarningTTL {
		t.Errorf("warning removal after %v, want %v", scheduled, DefaultWarningTTL)
	}

	cleanup()
	if len(p.deleted) != 2 || p.deleted[1] != sent[0].MessageID {
		t.Errorf("warning not removed: deleted = %v", p.deleted)
	}
}

func TestFilterIgnoresBotsAndCleanMessages(t *testing.T) {
	p := newFakePlatform(10)
	f := NewFilter(p, NewWordSet(bannedWords))
	f.after = func(time.Duration, func()) { t.Fatal("nothing should be scheduled") }

	msgs := []InboundMessage{
		{ID: 1, ChannelID: 10, AuthorID: 2, AuthorIsBot: true, Content: "a7a"},
		{ID: 2, ChannelID: 10, AuthorID: 3, Content: "haha7a"},
	}
	for _, m := range msgs {
		if f.Handle(context.Background(), m) {
			t.Errorf("message %d flagged", m.ID)
		}
	}
	if len(p.deleted) != 0 || len(p.sent) != 0 {
		t.Errorf("unexpected side effects: deleted=%v sent=%v", p.deleted, p.sent)
	}
}
