package proc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

const (
	// Discord refuses bulk deletes of messages older than two weeks.
	bulkDeleteMaxAge = 14*24*time.Hour - time.Minute
	bulkDeleteMax    = 100
	fetchPageSize    = 100
)

// DiscordPlatform implements Platform on a disgo client.
type DiscordPlatform struct {
	client *bot.Client
}

func NewDiscordPlatform(client *bot.Client) *DiscordPlatform {
	return &DiscordPlatform{client: client}
}

func (p *DiscordPlatform) SelfID() snowflake.ID {
	if self, ok := p.client.Caches.SelfUser(); ok {
		return self.ID
	}
	return 0
}

func (p *DiscordPlatform) ResolveChannel(id snowflake.ID) (Channel, bool) {
	ch, ok := p.client.Caches.Channel(id)
	if !ok {
		return Channel{}, false
	}
	return Channel{ID: ch.ID(), GuildID: ch.GuildID(), Name: ch.Name()}, true
}

func (p *DiscordPlatform) FindChannelByName(guildID snowflake.ID, name string) (Channel, bool) {
	for ch := range p.client.Caches.Channels() {
		if ch.GuildID() != guildID || ch.Type() != discord.ChannelTypeGuildText {
			continue
		}
		if strings.EqualFold(ch.Name(), name) {
			return Channel{ID: ch.ID(), GuildID: ch.GuildID(), Name: ch.Name()}, true
		}
	}
	return Channel{}, false
}

func (p *DiscordPlatform) SendMessage(ctx context.Context, channelID snowflake.ID, content string) (snowflake.ID, error) {
	msg, err := p.client.Rest.CreateMessage(channelID, discord.MessageCreate{Content: content}, rest.WithCtx(ctx))
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (p *DiscordPlatform) AddReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error {
	return p.client.Rest.AddReaction(channelID, messageID, emoji, rest.WithCtx(ctx))
}

func (p *DiscordPlatform) DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error {
	return p.client.Rest.DeleteMessage(channelID, messageID, rest.WithCtx(ctx))
}

// RecentMessages pages backwards from the newest message until limit
// messages are collected or the channel runs out.
func (p *DiscordPlatform) RecentMessages(ctx context.Context, channelID snowflake.ID, limit int) ([]StoredMessage, error) {
	var out []StoredMessage
	var before snowflake.ID
	for len(out) < limit {
		page := min(fetchPageSize, limit-len(out))
		msgs, err := p.client.Rest.GetMessages(channelID, 0, before, 0, page, rest.WithCtx(ctx))
		if err != nil {
			return out, err
		}
		if len(msgs) == 0 {
			break
		}
		for _, m := range msgs {
			out = append(out, StoredMessage{ID: m.ID, CreatedAt: m.CreatedAt})
		}
		before = msgs[len(msgs)-1].ID
		if len(msgs) < page {
			break
		}
	}
	return out, nil
}

// DeleteMessages bulk deletes what it can and removes older messages one by
// one. It returns how many were deleted.
func (p *DiscordPlatform) DeleteMessages(ctx context.Context, channelID snowflake.ID, msgs []StoredMessage) (int, error) {
	cutoff := time.Now().Add(-bulkDeleteMaxAge)
	var recent, old []snowflake.ID
	for _, m := range msgs {
		if m.CreatedAt.After(cutoff) {
			recent = append(recent, m.ID)
		} else {
			old = append(old, m.ID)
		}
	}

	deleted := 0
	for len(recent) > 0 {
		n := min(bulkDeleteMax, len(recent))
		chunk := recent[:n]
		recent = recent[n:]

		var err error
		if len(chunk) == 1 {
			err = p.client.Rest.DeleteMessage(channelID, chunk[0], rest.WithCtx(ctx))
		} else {
			err = p.client.Rest.BulkDeleteMessages(channelID, chunk, rest.WithCtx(ctx))
		}
		if err != nil {
			return deleted, err
		}
		deleted += len(chunk)
	}

	for _, id := range old {
		if err := p.client.Rest.DeleteMessage(channelID, id, rest.WithCtx(ctx)); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (p *DiscordPlatform) MessageAuthor(ctx context.Context, channelID, messageID snowflake.ID) (snowflake.ID, error) {
	msg, err := p.client.Rest.GetMessage(channelID, messageID, rest.WithCtx(ctx))
	if err != nil {
		return 0, err
	}
	return msg.Author.ID, nil
}

func (p *DiscordPlatform) FindRole(ctx context.Context, guildID snowflake.ID, name string) (snowflake.ID, error) {
	roles, err := p.client.Rest.GetRoles(guildID, rest.WithCtx(ctx))
	if err != nil {
		return 0, err
	}
	for _, r := range roles {
		if r.Name == name {
			return r.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrRoleNotFound, name)
}

func (p *DiscordPlatform) AddMemberRole(ctx context.Context, guildID, userID, roleID snowflake.ID) error {
	return p.client.Rest.AddMemberRole(guildID, userID, roleID, rest.WithCtx(ctx))
}

func (p *DiscordPlatform) SendDM(ctx context.Context, userID snowflake.ID, content string) error {
	dm, err := p.client.Rest.CreateDMChannel(userID, rest.WithCtx(ctx))
	if err != nil {
		return err
	}
	_, err = p.client.Rest.CreateMessage(dm.ID(), discord.MessageCreate{Content: content}, rest.WithCtx(ctx))
	return err
}
