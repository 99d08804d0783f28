package proc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/snowflake/v2"

	"github.com/egyptiansgermany/bawab/sys"
)

// ReactionEvent is a reaction added to a guild message.
type ReactionEvent struct {
	UserID         snowflake.ID
	UserIsBot      bool
	GuildID        snowflake.ID
	ChannelID      snowflake.ID
	MessageID      snowflake.ID
	AuthoredBySelf bool
	Emoji          string
}

// Decision is the outcome of Decide: either Ignore or ConfirmAndGrant.
type Decision interface {
	isDecision()
}

type Ignore struct {
	Reason string
}

// ConfirmAndGrant announces the volunteer and grants them the role.
type ConfirmAndGrant struct {
	UserID    snowflake.ID
	GuildID   snowflake.ID
	ChannelID snowflake.ID
}

func (Ignore) isDecision()          {}
func (ConfirmAndGrant) isDecision() {}

const (
	ReasonBotUser    = "reaction by a bot"
	ReasonNotOwnPoll = "message not authored by this bot"
	ReasonNoHandler  = "no handler for emoji"
	ReasonNoGuild    = "reaction outside a guild"
)

// Decide classifies a reaction. It is pure; the checks run in a fixed order.
func Decide(ev ReactionEvent) Decision {
	switch {
	case ev.UserIsBot:
		return Ignore{Reason: ReasonBotUser}
	case !ev.AuthoredBySelf:
		return Ignore{Reason: ReasonNotOwnPoll}
	case !SameEmoji(ev.Emoji, EmojiOrganizer):
		return Ignore{Reason: ReasonNoHandler}
	case ev.GuildID == 0:
		return Ignore{Reason: ReasonNoGuild}
	}
	return ConfirmAndGrant{UserID: ev.UserID, GuildID: ev.GuildID, ChannelID: ev.ChannelID}
}

// SameEmoji compares two emoji ignoring variation selector 16.
func SameEmoji(a, b string) bool {
	return strings.ReplaceAll(a, "\uFE0F", "") == strings.ReplaceAll(b, "\uFE0F", "")
}

// Assigner turns organizer reactions into a confirmation and a role grant.
type Assigner struct {
	Platform Platform
	RoleName string
}

func NewAssigner(p Platform, roleName string) *Assigner {
	return &Assigner{Platform: p, RoleName: roleName}
}

// OrganizerConfirmation is posted every time someone volunteers.
func OrganizerConfirmation(userID snowflake.ID) string {
	return fmt.Sprintf("🎉 <@%s> is volunteering to be an **organizer** for this week! Thank you! 🛠️", userID)
}

// Handle applies the decision for ev and returns it.
func (a *Assigner) Handle(ctx context.Context, ev ReactionEvent) Decision {
	d := Decide(ev)
	grant, ok := d.(ConfirmAndGrant)
	if !ok {
		return d
	}

	if _, err := a.Platform.SendMessage(ctx, grant.ChannelID, OrganizerConfirmation(grant.UserID)); err != nil {
		sys.LogWarn(sys.MsgRoleConfirmFailed, grant.ChannelID, err)
	}

	roleID, err := a.Platform.FindRole(ctx, grant.GuildID, a.RoleName)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			sys.LogDebug(sys.MsgRoleMissing, a.RoleName, grant.GuildID)
		} else {
			sys.LogWarn(sys.MsgRoleLookupFailed, grant.GuildID, err)
		}
		return d
	}

	if err := a.Platform.AddMemberRole(ctx, grant.GuildID, grant.UserID, roleID); err != nil {
		sys.LogWarn(sys.MsgRoleGrantFailed, a.RoleName, grant.UserID, err)
		return d
	}
	sys.LogRole(sys.MsgRoleGranted, a.RoleName, grant.UserID)
	return d
}
