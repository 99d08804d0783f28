package proc

import (
	"context"
	"errors"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

var (
	// ErrUnresolved is returned when a target or channel cannot be found.
	ErrUnresolved = errors.New("target could not be resolved")
	// ErrRoleNotFound is returned by FindRole when no role has the given name.
	ErrRoleNotFound = errors.New("role not found")
)

// Channel is the resolved form of a Target.
type Channel struct {
	ID      snowflake.ID
	GuildID snowflake.ID
	Name    string
}

// StoredMessage is the part of a fetched message the purge path needs.
type StoredMessage struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

// Platform is everything the engine needs from the chat service.
type Platform interface {
	SelfID() snowflake.ID
	ResolveChannel(id snowflake.ID) (Channel, bool)
	SendMessage(ctx context.Context, channelID snowflake.ID, content string) (snowflake.ID, error)
	AddReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error
	DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error
	RecentMessages(ctx context.Context, channelID snowflake.ID, limit int) ([]StoredMessage, error)
	DeleteMessages(ctx context.Context, channelID snowflake.ID, msgs []StoredMessage) (int, error)
	MessageAuthor(ctx context.Context, channelID, messageID snowflake.ID) (snowflake.ID, error)
	FindRole(ctx context.Context, guildID snowflake.ID, name string) (snowflake.ID, error)
	AddMemberRole(ctx context.Context, guildID, userID, roleID snowflake.ID) error
	FindChannelByName(guildID snowflake.ID, name string) (Channel, bool)
	SendDM(ctx context.Context, userID snowflake.ID, content string) error
}
