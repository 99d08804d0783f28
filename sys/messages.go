package sys

// --- Message Constants ---

const (
	// --- Infrastructure & Lifecycle ---
	MsgConfigFailedToLoad     = "Failed to load config: %v"
	MsgConfigMissingToken     = "DISCORD_TOKEN is not set in .env file"
	MsgConfigBadTimezone      = "unknown timezone %q: %w"
	MsgConfigMissingTimezone  = "no timezone configured: set TIMEZONE or timezone in the community file"
	MsgConfigBadTick          = "invalid TICK_INTERVAL %q: %w"
	MsgConfigCommunityRead    = "failed to read community file %s: %w"
	MsgConfigCommunityParse   = "failed to parse community file %s: %w"
	MsgDatabaseInitSuccess    = "Database initialized successfully"
	MsgDatabaseTableError     = "Failed to create table: %w"
	MsgDatabasePragmaError    = "Failed to set pragma %s: %w"
	MsgDaemonStarting         = "Starting..."
	MsgBotStarting            = "Starting %s..."
	MsgBotLogFile             = "Writing logs to %s"
	MsgBotReady               = "%s is ready! (ID: %s) (PID: %d) (Took: %dms)"
	MsgBotShutdown            = "Shutting down %s..."
	MsgBotKillingOld          = "Killing running instance... (PID: %d)"
	MsgBotOldTerminated       = "Old instance terminated."
	MsgBotRegisterFail        = "Command registration failed: %v"
	MsgBotSystemdNotifyFail   = "systemd notify failed: %v"
	MsgGenericError           = "%v"
	MsgLoaderPanicRecovered   = "Recovered from panic: %v"
	MsgLoaderSyncCommands     = "Syncing %s commands..."
	MsgLoaderUpToDate         = "Commands are up to date. (Hash: %s)"
	MsgLoaderGlobalFail       = "failed to register global commands: %w"
	MsgLoaderGlobalRegistered = "Registered global command: %s"
	MsgLoaderGuildFail        = "Failed to register guild commands: %v"
	MsgLoaderGuildRegistered  = "Registered guild command: %s"

	// --- Scheduler ---
	MsgSchedulerStarted      = "Ticking every %s in %s with %d rule(s)"
	MsgSchedulerCoarseTick   = "Tick interval %s is coarser than one minute; rules whose minute is not landed on will never fire"
	MsgSchedulerRuleFired    = "Rule %q fired for %s"
	MsgSchedulerRuleFailed   = "Rule %q failed: %v"
	MsgSchedulerRulePanic    = "Rule %q panicked: %v"
	MsgSchedulerLedgerFail   = "Failed to claim slot for rule %q: %v"
	MsgSchedulerAlreadyFired = "Rule %q already fired for %s"
	MsgSchedulerStopped      = "Shutting down scheduler..."
	MsgSchedulerPruneFail    = "Failed to prune schedule runs: %v"

	// --- Broadcast ---
	MsgBroadcastSkipped  = "Skipping unresolvable target %q"
	MsgBroadcastFailed   = "Failed to send to %q (%s): %v"
	MsgBroadcastFinished = "Broadcast %q finished: %d sent, %d skipped, %d failed"
	MsgDirectoryResolved = "Directory resolved %d of %d channel(s)"

	// --- Polls ---
	MsgPollReactFailed = "Failed to attach %s to poll in %q: %v"
	MsgPollBuildFailed = "Failed to build activity poll for %q: %v"
	MsgPollFinished    = "%s polls finished: %d sent, %d skipped, %d failed"

	// --- Roles ---
	MsgRoleConfirmFailed = "Failed to send organizer confirmation in %s: %v"
	MsgRoleLookupFailed  = "Failed to look up roles in guild %s: %v"
	MsgRoleMissing       = "Role %q not found in guild %s; skipping grant"
	MsgRoleGrantFailed   = "Failed to grant %q to %s: %v"
	MsgRoleGranted       = "Granted %q to %s"
	MsgReactionIgnored   = "Ignored reaction on %s: %s"

	// --- Moderation ---
	MsgModerationFlagged      = "Removed banned message from %s in %s"
	MsgModerationDeleteFailed = "Failed to delete flagged message %s: %v"
	MsgModerationWarnFailed   = "Failed to warn %s: %v"

	// --- Purge ---
	MsgPurgeFailed = "Failed to purge %q: %v"

	// --- Announcer ---
	MsgAnnouncerClaimFailed = "Failed to claim due announcements: %v"
	MsgAnnouncerUnknownSet  = "Announcement %d has unknown target %q"
	MsgAnnouncerSent        = "Announcement %d delivered to %q"
	MsgAnnouncerParserFail  = "failed to initialize natural time parser: %w"

	// --- Welcome ---
	MsgWelcomeChannelMissing = "Welcome channel %q not found in guild %s"
	MsgWelcomeSendFailed     = "Failed to send welcome for %s: %v"
	MsgWelcomeDMFailed       = "Couldn't send DM to %s: %v"

	// --- Commands ---
	MsgCommandRespondError = "Failed to respond to /%s: %v"
	MsgCommandInvoked      = "/%s invoked by %s"
)

// User-facing acknowledgments and errors.
const (
	MsgAckAnnouncement   = "✅ Announcement sent to announcement channel"
	MsgAckCities         = "✅ Announcement sent to Germany"
	MsgAckTest           = "✅ Announcement sent to test"
	MsgAckPolls          = "✅ Monday polls sent!"
	MsgAckPartial        = "⚠️ Sent to %d channel(s); %d skipped, %d failed."
	MsgAckScheduled      = "✅ Announcement to **%s** scheduled %s."
	MsgAckCleared        = "🧹 Cleared %d messages in %s!"
	MsgAckClearedNothing = "🧹 Nothing to clear."
	MsgAckClearFailed    = "❌ Couldn't clear %s."
	MsgAckPendingNone    = "🗓️ No announcements are scheduled."
	MsgAckPendingHeader  = "🗓️ **%d scheduled announcement(s)**"
	MsgAckPendingItem    = "`#%d` to **%s** <t:%d:F> (<t:%d:R>): %s"

	ErrAckParseFailed  = "❌ Failed to parse the date/time. Try formats like 'tomorrow', 'in 2 hours', 'next friday at 3pm'."
	ErrAckPastTime     = "❌ The announcement time must be in the future!"
	ErrAckSaveFailed   = "❌ Failed to save the announcement. Please try again."
	ErrAckUnknownSet   = "❌ Unknown target."
	ErrAckNotAvailable = "❌ The bot is still starting up. Please try again in a moment."
	ErrAckBadAmount    = "❌ Amount must be between 1 and %d."
	ErrAckFetchFailed  = "❌ Failed to fetch scheduled announcements."
)
