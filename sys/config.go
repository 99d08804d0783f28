package sys

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultTickInterval = 30 * time.Second

type Config struct {
	Token         string
	GuildID       string
	DatabasePath  string
	CommunityPath string
	TickInterval  time.Duration
	Silent        bool

	// Location is resolved from TIMEZONE or the community file.
	Location  *time.Location
	Community *CommunityFile
}

// Validate ensures the configuration is complete enough to start.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf(MsgConfigMissingToken)
	}
	if c.GuildID != "" && (len(c.GuildID) < 17 || len(c.GuildID) > 20) {
		return fmt.Errorf("invalid GUILD_ID: must be a valid Snowflake")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive")
	}
	if c.Location == nil {
		return fmt.Errorf("timezone is not configured")
	}
	if c.Community == nil {
		return fmt.Errorf("community file is not loaded")
	}
	return c.Community.Validate()
}

// LoadConfig initializes the configuration from the environment and the
// community file. Any failure here is fatal for the process.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		folder := "."
		if info, err := os.Stat("data"); err == nil && info.IsDir() {
			folder = "./data"
		}
		dbPath = filepath.Join(folder, GetProjectName()+".db")
	}

	silent, _ := strconv.ParseBool(os.Getenv("SILENT"))

	tick := DefaultTickInterval
	if raw := strings.TrimSpace(os.Getenv("TICK_INTERVAL")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf(MsgConfigBadTick, raw, err)
		}
		tick = d
	}

	communityPath := strings.TrimSpace(os.Getenv("COMMUNITY_FILE"))
	community, err := LoadCommunity(communityPath)
	if err != nil {
		return nil, err
	}

	tzName := strings.TrimSpace(os.Getenv("TIMEZONE"))
	if tzName == "" {
		tzName = community.Timezone
	}
	if tzName == "" {
		return nil, fmt.Errorf(MsgConfigMissingTimezone)
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf(MsgConfigBadTimezone, tzName, err)
	}

	cfg := &Config{
		Token:         os.Getenv("DISCORD_TOKEN"),
		GuildID:       os.Getenv("GUILD_ID"),
		DatabasePath:  fmt.Sprintf("%s?_journal_mode=WAL&_timeout=5000", dbPath),
		CommunityPath: communityPath,
		TickInterval:  tick,
		Silent:        silent,
		Location:      loc,
		Community:     community,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Silent {
		SetSilentMode(true)
	}

	return cfg, nil
}

func GetProjectName() string {
	exePath, err := os.Executable()
	projectName := "bawab"
	if err == nil {
		projectName = filepath.Base(exePath)
		projectName = strings.TrimSuffix(projectName, ".exe")

		if projectName == "main" || strings.HasPrefix(projectName, "go_build_") || strings.HasSuffix(projectName, ".test") {
			if modData, err := os.ReadFile("go.mod"); err == nil {
				lines := strings.Split(string(modData), "\n")
				if len(lines) > 0 && strings.HasPrefix(lines[0], "module ") {
					parts := strings.Split(lines[0], "/")
					projectName = strings.TrimSpace(parts[len(parts)-1])
				}
			}
		}
	}
	return projectName
}
