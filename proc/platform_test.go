package proc

import (
	"context"
	"errors"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

var errFake = errors.New("fake failure")

type sentMessage struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
	Content   string
}

type addedReaction struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
	Emoji     string
}

type grant struct {
	GuildID, UserID, RoleID snowflake.ID
}

// fakePlatform records every call and fails on demand.
type fakePlatform struct {
	mu sync.Mutex

	self     snowflake.ID
	channels map[snowflake.ID]Channel
	roles    map[string]snowflake.ID
	history  map[snowflake.ID][]StoredMessage
	authors  map[snowflake.ID]snowflake.ID

	failSend  map[snowflake.ID]error
	failReact map[string]error
	failDM    error

	nextID    snowflake.ID
	sent      []sentMessage
	reactions []addedReaction
	deleted   []snowflake.ID
	grants    map[grant]int
	dms       map[snowflake.ID][]string
}

func newFakePlatform(channelIDs ...snowflake.ID) *fakePlatform {
	f := &fakePlatform{
		self:      1,
		channels:  make(map[snowflake.ID]Channel),
		roles:     make(map[string]snowflake.ID),
		history:   make(map[snowflake.ID][]StoredMessage),
		authors:   make(map[snowflake.ID]snowflake.ID),
		failSend:  make(map[snowflake.ID]error),
		failReact: make(map[string]error),
		nextID:    1000,
		grants:    make(map[grant]int),
		dms:       make(map[snowflake.ID][]string),
	}
	for _, id := range channelIDs {
		f.addChannel(id, 42, "")
	}
	return f
}

func (f *fakePlatform) addChannel(id, guildID snowflake.ID, name string) {
	f.channels[id] = Channel{ID: id, GuildID: guildID, Name: name}
}

func (f *fakePlatform) SelfID() snowflake.ID { return f.self }

func (f *fakePlatform) ResolveChannel(id snowflake.ID) (Channel, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[id]
	return ch, ok
}

func (f *fakePlatform) FindChannelByName(guildID snowflake.ID, name string) (Channel, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.channels {
		if ch.GuildID == guildID && ch.Name == name {
			return ch, true
		}
	}
	return Channel{}, false
}

func (f *fakePlatform) SendMessage(_ context.Context, channelID snowflake.ID, content string) (snowflake.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failSend[channelID]; err != nil {
		return 0, err
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, MessageID: f.nextID, Content: content})
	f.authors[f.nextID] = f.self
	return f.nextID, nil
}

func (f *fakePlatform) AddReaction(_ context.Context, channelID, messageID snowflake.ID, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failReact[emoji]; err != nil {
		return err
	}
	f.reactions = append(f.reactions, addedReaction{ChannelID: channelID, MessageID: messageID, Emoji: emoji})
	return nil
}

func (f *fakePlatform) DeleteMessage(_ context.Context, _, messageID snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakePlatform) RecentMessages(_ context.Context, channelID snowflake.ID, limit int) ([]StoredMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := f.history[channelID]
	if len(h) > limit {
		h = h[:limit]
	}
	out := make([]StoredMessage, len(h))
	copy(out, h)
	return out, nil
}

func (f *fakePlatform) DeleteMessages(_ context.Context, channelID snowflake.ID, msgs []StoredMessage) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gone := make(map[snowflake.ID]bool, len(msgs))
	for _, m := range msgs {
		gone[m.ID] = true
		f.deleted = append(f.deleted, m.ID)
	}
	var keep []StoredMessage
	for _, m := range f.history[channelID] {
		if !gone[m.ID] {
			keep = append(keep, m)
		}
	}
	f.history[channelID] = keep
	return len(msgs), nil
}

func (f *fakePlatform) MessageAuthor(_ context.Context, _, messageID snowflake.ID) (snowflake.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.authors[messageID]
	if !ok {
		return 0, ErrUnresolved
	}
	return id, nil
}

func (f *fakePlatform) FindRole(_ context.Context, _ snowflake.ID, name string) (snowflake.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.roles[name]
	if !ok {
		return 0, ErrRoleNotFound
	}
	return id, nil
}

// AddMemberRole counts requests; holding a role twice is still one role.
func (f *fakePlatform) AddMemberRole(_ context.Context, guildID, userID, roleID snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grants[grant{guildID, userID, roleID}]++
	return nil
}

func (f *fakePlatform) SendDM(_ context.Context, userID snowflake.ID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDM != nil {
		return f.failDM
	}
	f.dms[userID] = append(f.dms[userID], content)
	return nil
}

func (f *fakePlatform) sentTo(channelID snowflake.ID) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, m := range f.sent {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakePlatform) reactionsOn(messageID snowflake.ID) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.reactions {
		if r.MessageID == messageID {
			out = append(out, r.Emoji)
		}
	}
	return out
}

// newTestDispatcher returns an unpaced dispatcher over the named channels.
func newTestDispatcher(t interface{ Fatalf(string, ...any) }, p Platform, entries ...DirectoryEntry) *Dispatcher {
	dir, err := NewDirectory(entries)
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}
	d := NewDispatcher(p, dir)
	d.Limiter = nil
	return d
}
