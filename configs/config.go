package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Default Slack Lists column ids for the fortune list. All of them can be
// overridden per workspace through the *_COL_ID environment variables.
const (
	defaultGenderColID   = "Col0A8FH3BN7L"
	defaultTimeColID     = "Col0A8K6V4HDJ"
	defaultBirthdayColID = "Col0A8JMV8N5A"
	defaultPrivateColID  = "Col0A8BMFER7F"
	defaultAssigneeColID = "Col0A8G4DUAMQ"
)

// Default gender select option ids.
var defaultGenderOptions = map[string]string{
	"OptQIPU5CQN": "m",
	"Opt0UQXFE0P": "f",
}

// Default birth-time select option ids mapped to the 13 bucket codes
// (0..11 = the twelve traditional two-hour buckets, 12 = unknown).
var defaultTimeOptions = map[string]string{
	"OptTK8JIX80": "0",
	"OptA92NTRBY": "1",
	"OptLKAW5WA1": "2",
	"OptV3N31RHW": "3",
	"Opt76B43XGY": "4",
	"Opt1Z92W5ML": "5",
	"Opt605DLXQ7": "6",
	"OptCZI2JJS4": "7",
	"OptTMERF71G": "8",
	"Opt8862IDXI": "9",
	"OptCP7RGTD8": "10",
	"OptFOHK1YTJ": "11",
	"OptUZH3DWEL": "12",
}

type Config struct {
	SlackBotToken     string `mapstructure:"SLACK_BOT_TOKEN"`
	SlackListID       string `mapstructure:"SLACK_LIST_ID"`
	SlackChannelID    string `mapstructure:"SLACK_CHANNEL_ID"`
	AdminUserIDs      string `mapstructure:"ADMIN_USER_IDS"`
	GeminiAPIKey      string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel       string `mapstructure:"GEMINI_MODEL"`
	GenderColID       string `mapstructure:"GENDER_COL_ID"`
	TimeColID         string `mapstructure:"TIME_COL_ID"`
	BirthdayColID     string `mapstructure:"BIRTHDAY_COL_ID"`
	PrivateColID      string `mapstructure:"PRIVATE_COL_ID"`
	AssigneeColID     string `mapstructure:"ASSIGNEE_COL_ID"`
	GenderOptM        string `mapstructure:"GENDER_OPT_M"`
	GenderOptF        string `mapstructure:"GENDER_OPT_F"`
	AuditMode         bool   `mapstructure:"AUDIT_MODE"`
	PurgeChannelID    string `mapstructure:"PURGE_CHANNEL_ID"`
	PurgeDryRun       bool   `mapstructure:"PURGE_DRY_RUN"`
	PurgeMaxDeletions int    `mapstructure:"PURGE_MAX_DELETIONS"`
}

// ColumnSchema names the list columns the extractor reads. It is resolved
// once at config load rather than re-derived per item.
type ColumnSchema struct {
	Gender   string
	Time     string
	Birthday string
	Private  string
	Assignee string
}

func NewConfig(path string) (*Config, error) {
	relativeURL, err := GetBasePath(path)
	if err != nil {
		return nil, fmt.Errorf("error getting base path: %v", err)
	}

	vip := viper.New()
	vip.SetConfigType("env")
	vip.SetConfigName(".env")
	vip.AddConfigPath(relativeURL)
	vip.AutomaticEnv()

	if err := vip.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	vip.BindEnv("SLACK_BOT_TOKEN")
	vip.BindEnv("SLACK_LIST_ID")
	vip.BindEnv("SLACK_CHANNEL_ID")
	vip.BindEnv("ADMIN_USER_IDS")
	vip.BindEnv("GEMINI_API_KEY")
	vip.BindEnv("GEMINI_MODEL")
	vip.BindEnv("GENDER_COL_ID")
	vip.BindEnv("TIME_COL_ID")
	vip.BindEnv("BIRTHDAY_COL_ID")
	vip.BindEnv("PRIVATE_COL_ID")
	vip.BindEnv("ASSIGNEE_COL_ID")
	vip.BindEnv("GENDER_OPT_M")
	vip.BindEnv("GENDER_OPT_F")
	vip.BindEnv("AUDIT_MODE")
	vip.BindEnv("PURGE_CHANNEL_ID")
	vip.BindEnv("PURGE_DRY_RUN")
	vip.BindEnv("PURGE_MAX_DELETIONS")

	vip.SetDefault("GEMINI_MODEL", "gemini-1.5-flash-001")
	vip.SetDefault("GENDER_COL_ID", defaultGenderColID)
	vip.SetDefault("TIME_COL_ID", defaultTimeColID)
	vip.SetDefault("BIRTHDAY_COL_ID", defaultBirthdayColID)
	vip.SetDefault("PRIVATE_COL_ID", defaultPrivateColID)
	vip.SetDefault("ASSIGNEE_COL_ID", defaultAssigneeColID)

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %v", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks the keys the batch cannot run without. Required-key
// failures are fatal before any network call is made.
func (c *Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"SLACK_BOT_TOKEN", c.SlackBotToken},
		{"SLACK_LIST_ID", c.SlackListID},
		{"SLACK_CHANNEL_ID", c.SlackChannelID},
		{"GEMINI_API_KEY", c.GeminiAPIKey},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("missing required env var: %s", r.name)
		}
	}
	return nil
}

// Admins parses the comma-separated admin user id list, dropping blanks.
func (c *Config) Admins() []string {
	raw := strings.TrimSpace(c.AdminUserIDs)
	if raw == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// Columns returns the resolved column schema.
func (c *Config) Columns() ColumnSchema {
	return ColumnSchema{
		Gender:   c.GenderColID,
		Time:     c.TimeColID,
		Birthday: c.BirthdayColID,
		Private:  c.PrivateColID,
		Assignee: c.AssigneeColID,
	}
}

// GenderOptions returns the option-id to m/f lookup table with any
// workspace overrides applied on top of the defaults.
func (c *Config) GenderOptions() map[string]string {
	opts := make(map[string]string, len(defaultGenderOptions)+2)
	for k, v := range defaultGenderOptions {
		opts[k] = v
	}
	if c.GenderOptM != "" {
		opts[c.GenderOptM] = "m"
	}
	if c.GenderOptF != "" {
		opts[c.GenderOptF] = "f"
	}
	return opts
}

// TimeOptions returns the option-id to time-code lookup table.
func (c *Config) TimeOptions() map[string]string {
	opts := make(map[string]string, len(defaultTimeOptions))
	for k, v := range defaultTimeOptions {
		opts[k] = v
	}
	return opts
}

// PurgeChannel returns the channel the purge utility scans, falling back to
// the shared fortune channel when no dedicated one is configured.
func (c *Config) PurgeChannel() string {
	if c.PurgeChannelID != "" {
		return c.PurgeChannelID
	}
	return c.SlackChannelID
}

func GetBasePath(path string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(cwd, "go.mod")); err == nil {
			return filepath.Join(cwd, path), nil
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			return "", errors.New("go.mod not found")
		}
		cwd = parent
	}
}
