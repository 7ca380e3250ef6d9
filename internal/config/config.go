package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone  = "Asia/Seoul"
	configPathEnv    = "BWS_AGENT_CONFIG"
	llmAPIKeyEnv     = "LLM_API_KEY"
	llmModelEnv      = "LLM_MODEL"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Playlists     PlaylistConfig     `yaml:"playlists"`
	Transcript    TranscriptConfig   `yaml:"transcript"`
	LLM           LLMConfig          `yaml:"llm"`
	Notifications NotificationConfig `yaml:"notifications"`
	Storage       StorageConfig      `yaml:"storage"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
	Notebook      NotebookConfig     `yaml:"notebook"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines the daily fire times for both slots.
type SchedulerConfig struct {
	MorningTime string         `yaml:"morningTime"`
	EveningTime string         `yaml:"eveningTime"`
	Timezone    string         `yaml:"timezone"`
	location    *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// PlaylistConfig maps each slot to its playlist listing URL.
type PlaylistConfig struct {
	MorningURL string `yaml:"morningUrl"`
	EveningURL string `yaml:"eveningUrl"`
}

// TranscriptConfig tunes caption extraction.
type TranscriptConfig struct {
	Language string        `yaml:"language"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LLMConfig defines how to contact the summarization API.
type LLMConfig struct {
	BaseURL        string        `yaml:"baseUrl"`
	Model          string        `yaml:"model"`
	APIKey         string        `yaml:"apiKey"`
	Timeout        time.Duration `yaml:"timeout"`
	ReportPrompt   string        `yaml:"reportPrompt"`
	ScriptPrompt   string        `yaml:"scriptPrompt"`
	MorningOpening string        `yaml:"morningOpening"`
	EveningOpening string        `yaml:"eveningOpening"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken   string `yaml:"botToken"`
	ChatID     string `yaml:"chatId"`
	FooterLink string `yaml:"footerLink"`
}

// StorageConfig locates the report directory and the delivery ledger file.
type StorageConfig struct {
	ReportsDir string `yaml:"reportsDir"`
	LedgerPath string `yaml:"ledgerPath"`
}

// PipelineConfig bounds the acquisition retry loop.
type PipelineConfig struct {
	MaxAttempts int           `yaml:"maxAttempts"`
	RetryDelay  time.Duration `yaml:"retryDelay"`
}

// NotebookConfig describes the external notebook helper command.
type NotebookConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Command       string        `yaml:"command"`
	NotebookURL   string        `yaml:"notebookUrl"`
	UploadTimeout time.Duration `yaml:"uploadTimeout"`
	AskTimeout    time.Duration `yaml:"askTimeout"`
	SettleDelay   time.Duration `yaml:"settleDelay"`
}

// Load reads .env, YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Scheduler.MorningTime != "" {
		base.Scheduler.MorningTime = override.Scheduler.MorningTime
	}
	if override.Scheduler.EveningTime != "" {
		base.Scheduler.EveningTime = override.Scheduler.EveningTime
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Playlists.MorningURL != "" {
		base.Playlists.MorningURL = override.Playlists.MorningURL
	}
	if override.Playlists.EveningURL != "" {
		base.Playlists.EveningURL = override.Playlists.EveningURL
	}

	if override.Transcript.Language != "" {
		base.Transcript.Language = override.Transcript.Language
	}
	if override.Transcript.Timeout > 0 {
		base.Transcript.Timeout = override.Transcript.Timeout
	}

	if override.LLM.BaseURL != "" {
		base.LLM.BaseURL = override.LLM.BaseURL
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.Timeout > 0 {
		base.LLM.Timeout = override.LLM.Timeout
	}
	if override.LLM.ReportPrompt != "" {
		base.LLM.ReportPrompt = override.LLM.ReportPrompt
	}
	if override.LLM.ScriptPrompt != "" {
		base.LLM.ScriptPrompt = override.LLM.ScriptPrompt
	}
	if override.LLM.MorningOpening != "" {
		base.LLM.MorningOpening = override.LLM.MorningOpening
	}
	if override.LLM.EveningOpening != "" {
		base.LLM.EveningOpening = override.LLM.EveningOpening
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}
	if override.Notifications.Telegram.FooterLink != "" {
		base.Notifications.Telegram.FooterLink = override.Notifications.Telegram.FooterLink
	}

	if override.Storage.ReportsDir != "" {
		base.Storage.ReportsDir = override.Storage.ReportsDir
	}
	if override.Storage.LedgerPath != "" {
		base.Storage.LedgerPath = override.Storage.LedgerPath
	}

	if override.Pipeline.MaxAttempts > 0 {
		base.Pipeline.MaxAttempts = override.Pipeline.MaxAttempts
	}
	if override.Pipeline.RetryDelay > 0 {
		base.Pipeline.RetryDelay = override.Pipeline.RetryDelay
	}

	if override.Notebook.Command != "" {
		base.Notebook = override.Notebook
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{
			MorningTime: "08:40",
			EveningTime: "17:40",
			Timezone:    defaultTimezone,
			location:    tz,
		},
		Playlists: PlaylistConfig{
			MorningURL: "https://www.youtube.com/playlist?list=PLVups02-DZEWWyOMyk4jjGaWJ_0o1N1iO",
			EveningURL: "https://www.youtube.com/playlist?list=PLVups02-DZEUU9ozegLPLzfS6WiGGiI_T",
		},
		Transcript: TranscriptConfig{
			Language: "ko",
			Timeout:  10 * time.Second,
		},
		LLM: LLMConfig{
			BaseURL:        "https://generativelanguage.googleapis.com/v1beta/openai/",
			Model:          "gemini-flash-latest",
			Timeout:        90 * time.Second,
			ReportPrompt:   defaultReportPrompt,
			ScriptPrompt:   defaultScriptPrompt,
			MorningOpening: defaultMorningOpening,
			EveningOpening: defaultEveningOpening,
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{
				FooterLink: "https://www.youtube.com/@BWSInvest",
			},
		},
		Storage: StorageConfig{
			ReportsDir: "output/reports",
			LedgerPath: "data/processed_reports.txt",
		},
		Pipeline: PipelineConfig{
			MaxAttempts: 3,
			RetryDelay:  30 * time.Second,
		},
		Notebook: NotebookConfig{
			Enabled:       false,
			Command:       "notebooklm-cli",
			UploadTimeout: 2 * time.Minute,
			AskTimeout:    3 * time.Minute,
			SettleDelay:   15 * time.Second,
		},
	}
}
