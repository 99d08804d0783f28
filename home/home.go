package home

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/egyptiansgermany/bawab/proc"
	"github.com/egyptiansgermany/bawab/sys"
)

var (
	engine    *proc.Engine
	announcer *proc.Announcer
	readyOnce sync.Once
)

// Setup builds the engine on top of client and registers the scheduler
// daemon. Commands and event handlers registered by this package use it.
func Setup(cfg *sys.Config, community *proc.Community, client *bot.Client) error {
	platform := proc.NewDiscordPlatform(client)
	e := proc.NewEngine(community, platform)

	ledger := proc.NewSQLiteLedger()
	s, err := e.NewScheduler(cfg.TickInterval, ledger)
	if err != nil {
		return err
	}

	parser, err := proc.NewNaturalTimeParser()
	if err != nil {
		return err
	}
	a := proc.NewAnnouncer(e.Dispatcher, proc.SQLiteAnnouncementStore{}, parser, community.Location, community.TargetSets())

	s.AddHook(a.DeliverDue)
	s.AddHook(ledger.PruneHook)

	engine, announcer = e, a
	sys.RegisterDaemon(sys.LogScheduler, s.Daemon)
	return nil
}

// directoryReportDelay gives guild create events time to fill the channel
// cache after ready.
const directoryReportDelay = 15 * time.Second

func init() {
	sys.OnClientReady(func(ctx context.Context, client *bot.Client) {
		readyOnce.Do(func() {
			sys.SafeGo(func() {
				select {
				case <-ctx.Done():
				case <-time.After(directoryReportDelay):
					reportDirectory()
				}
			})
		})
	})
}

// reportDirectory logs directory entries the cache cannot see.
func reportDirectory() {
	if engine == nil {
		return
	}
	d := engine.Dispatcher
	missing := 0
	for _, t := range d.Directory.Targets() {
		if _, ok := d.Resolve(t); !ok {
			sys.LogWarn(sys.MsgBroadcastSkipped, t)
			missing++
		}
	}
	sys.LogBroadcast(sys.MsgDirectoryResolved, d.Directory.Len()-missing, d.Directory.Len())
}

// --- Interaction helpers ---

func respond(event *events.ApplicationCommandInteractionCreate, content string) {
	update := discord.NewMessageUpdateV2([]discord.LayoutComponent{
		discord.NewContainer(discord.NewTextDisplay(content)),
	})
	if _, err := event.Client().Rest.UpdateInteractionResponse(event.ApplicationID(), event.Token(), update); err != nil {
		sys.LogWarn(sys.MsgCommandRespondError, event.SlashCommandInteractionData().CommandName(), err)
	}
}

// deferred acknowledges the interaction ephemerally and runs work in the
// background. work returns the final reply.
func deferred(event *events.ApplicationCommandInteractionCreate, work func(ctx context.Context) string) {
	name := event.SlashCommandInteractionData().CommandName()
	sys.LogCommand(sys.MsgCommandInvoked, name, event.User().Username)

	if err := event.DeferCreateMessage(true); err != nil {
		sys.LogWarn(sys.MsgCommandRespondError, name, err)
		return
	}

	sys.SafeGo(func() {
		if engine == nil {
			respond(event, sys.ErrAckNotAvailable)
			return
		}
		respond(event, work(sys.AppContext))
	})
}

// fanoutAck turns delivery results into the reply for a fan-out command.
func fanoutAck(ok string, ds []proc.Delivery) string {
	s := proc.Summarize(ds)
	if s.Clean() {
		return ok
	}
	return fmt.Sprintf(sys.MsgAckPartial, s.Sent, s.Skipped, s.Failed)
}

func purgeAck(reports []proc.PurgeReport) string {
	var b strings.Builder
	for _, r := range reports {
		if r.Skipped {
			continue
		}
		if r.Err != nil {
			fmt.Fprintf(&b, sys.MsgAckClearFailed+"\n", r.Name)
			continue
		}
		fmt.Fprintf(&b, sys.MsgAckCleared+"\n", r.Deleted, r.Name)
	}
	if b.Len() == 0 {
		return sys.MsgAckClearedNothing
	}
	return strings.TrimSuffix(b.String(), "\n")
}
