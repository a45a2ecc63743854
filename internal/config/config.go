package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultMaxUploadSize    = 50 * 1024 * 1024 // Telegram cloud Bot API ceiling
	DefaultChunkSize        = 1024 * 1024
	DefaultCleanupDelay     = 20 * time.Second
	DefaultProgressInterval = 2 * time.Second
	DefaultExtractTimeout   = 5 * time.Minute
	DefaultMaxVideoHeight   = 720
	DefaultScrapeDomain     = "qombol.com"
)

type Config struct {
	BotToken       string
	BotAPIEndpoint string // local Bot API server; lifts the upload ceiling
	DownloadDir    string
	Lang           string
	LogLevel       string

	AllowAll        bool
	AuthorizedUsers []int64

	BridgeChannelID int64
	MaxUploadSize   int64

	YtdlpPath      string
	YtdlpDisabled  bool
	MaxVideoHeight int
	ExtractTimeout time.Duration

	ScrapeDomain string

	ChunkSize        int64
	CleanupDelay     time.Duration
	ProgressInterval time.Duration

	RedditClientID     string
	RedditClientSecret string
	RedditRedirectURL  string
	AuthListenAddr     string
	DBPath             string
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		switch strings.ToLower(value) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseUserIDs parses a comma-separated list of Telegram user IDs.
// Malformed entries are skipped rather than failing the whole list.
func parseUserIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func NewConfig() (*Config, error) {
	config := &Config{
		BotToken:       getEnv("BOT_TOKEN", ""),
		BotAPIEndpoint: getEnv("BOT_API_ENDPOINT", ""),
		DownloadDir:    getEnv("DOWNLOAD_DIR", os.TempDir()),
		Lang:           getEnv("LANG", "fa"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		AllowAll:        getEnvBool("ALLOW_ALL", false),
		AuthorizedUsers: parseUserIDs(getEnv("AUTHORIZED_USERS", "")),

		BridgeChannelID: getEnvInt64("BRIDGE_CHANNEL_ID", 0),
		MaxUploadSize:   getEnvInt64("MAX_UPLOAD_SIZE", DefaultMaxUploadSize),

		YtdlpPath:      getEnv("YTDLP_PATH", "yt-dlp"),
		YtdlpDisabled:  getEnvBool("YTDLP_DISABLED", false),
		MaxVideoHeight: getEnvInt("MAX_VIDEO_HEIGHT", DefaultMaxVideoHeight),
		ExtractTimeout: getEnvDuration("EXTRACT_TIMEOUT", DefaultExtractTimeout),

		ScrapeDomain: getEnv("SCRAPE_DOMAIN", DefaultScrapeDomain),

		ChunkSize:        getEnvInt64("CHUNK_SIZE", DefaultChunkSize),
		CleanupDelay:     getEnvDuration("CLEANUP_DELAY", DefaultCleanupDelay),
		ProgressInterval: getEnvDuration("PROGRESS_INTERVAL", DefaultProgressInterval),

		RedditClientID:     getEnv("REDDIT_CLIENT_ID", ""),
		RedditClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
		RedditRedirectURL:  getEnv("REDDIT_REDIRECT_URL", "http://localhost:8080/reddit/callback"),
		AuthListenAddr:     getEnv("AUTH_LISTEN_ADDR", "localhost:8080"),
		DBPath:             getEnv("DB_PATH", ""),
	}

	if getEnvBool("RUNNING_IN_DOCKER", false) {
		config.DownloadDir = "/app/downloads"
	}
	if config.DBPath == "" {
		config.DBPath = config.DownloadDir + "/relay-bot.db"
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if err := c.validateRequiredFields(); err != nil {
		return err
	}
	if err := c.validateTransferSettings(); err != nil {
		return err
	}
	return c.validateReddit()
}

func (c *Config) validateRequiredFields() error {
	if c.BotToken == "" {
		return fmt.Errorf("missing required environment variable BOT_TOKEN")
	}
	if c.DownloadDir == "" {
		return fmt.Errorf("DOWNLOAD_DIR must not be empty")
	}
	return nil
}

func (c *Config) validateTransferSettings() error {
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive")
	}
	if c.CleanupDelay < 0 {
		return fmt.Errorf("CLEANUP_DELAY cannot be negative")
	}
	if c.ProgressInterval <= 0 {
		return fmt.Errorf("PROGRESS_INTERVAL must be positive")
	}
	if c.ExtractTimeout <= 0 {
		return fmt.Errorf("EXTRACT_TIMEOUT must be positive")
	}
	if c.MaxVideoHeight <= 0 {
		return fmt.Errorf("MAX_VIDEO_HEIGHT must be positive")
	}
	return nil
}

func (c *Config) validateReddit() error {
	if (c.RedditClientID != "") != (c.RedditClientSecret != "") {
		return fmt.Errorf("REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET must be set together")
	}
	return nil
}

// BridgeEnabled reports whether oversized transfers may be rerouted through
// the bridge channel. A local Bot API server makes the bridge unnecessary.
func (c *Config) BridgeEnabled() bool {
	return c.BridgeChannelID != 0 && c.BotAPIEndpoint == ""
}

// UploadCeiling returns the effective payload ceiling for direct delivery,
// or 0 when a local Bot API server removes the restriction.
func (c *Config) UploadCeiling() int64 {
	if c.BotAPIEndpoint != "" {
		return 0
	}
	return c.MaxUploadSize
}
