package configs

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_LIST_ID", "F123")
	t.Setenv("SLACK_CHANNEL_ID", "C123")
	t.Setenv("GEMINI_API_KEY", "key-123")
}

func TestNewConfigReadsEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_USER_IDS", "U111,U222")
	t.Setenv("AUDIT_MODE", "true")
	t.Setenv("PURGE_MAX_DELETIONS", "50")

	cfg, err := NewConfig(".")
	require.NoError(t, err)

	assert.Equal(t, "xoxb-test", cfg.SlackBotToken)
	assert.Equal(t, "F123", cfg.SlackListID)
	assert.Equal(t, "C123", cfg.SlackChannelID)
	assert.Equal(t, "key-123", cfg.GeminiAPIKey)
	assert.True(t, cfg.AuditMode)
	assert.Equal(t, 50, cfg.PurgeMaxDeletions)
}

func TestNewConfigMissingRequiredVars(t *testing.T) {
	required := []string{"SLACK_BOT_TOKEN", "SLACK_LIST_ID", "SLACK_CHANNEL_ID", "GEMINI_API_KEY"}

	for _, name := range required {
		t.Run(name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(name, "")

			_, err := NewConfig(".")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "missing required env var: "+name)
		})
	}
}

func TestNewConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := NewConfig(".")
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-flash-001", cfg.GeminiModel)

	cols := cfg.Columns()
	assert.Equal(t, defaultGenderColID, cols.Gender)
	assert.Equal(t, defaultTimeColID, cols.Time)
	assert.Equal(t, defaultBirthdayColID, cols.Birthday)
	assert.Equal(t, defaultPrivateColID, cols.Private)
	assert.Equal(t, defaultAssigneeColID, cols.Assignee)
}

func TestNewConfigColumnOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BIRTHDAY_COL_ID", "ColCustom1")
	t.Setenv("ASSIGNEE_COL_ID", "ColCustom2")

	cfg, err := NewConfig(".")
	require.NoError(t, err)

	cols := cfg.Columns()
	assert.Equal(t, "ColCustom1", cols.Birthday)
	assert.Equal(t, "ColCustom2", cols.Assignee)
	assert.Equal(t, defaultGenderColID, cols.Gender)
}

func TestAdmins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "single", raw: "U111", want: []string{"U111"}},
		{name: "multiple", raw: "U111,U222", want: []string{"U111", "U222"}},
		{name: "blanks and spaces", raw: " U111 , ,U222, ", want: []string{"U111", "U222"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{AdminUserIDs: tt.raw}
			assert.Equal(t, tt.want, cfg.Admins())
		})
	}
}

func TestGenderOptions(t *testing.T) {
	cfg := &Config{}
	opts := cfg.GenderOptions()
	assert.Equal(t, "m", opts["OptQIPU5CQN"])
	assert.Equal(t, "f", opts["Opt0UQXFE0P"])

	cfg = &Config{GenderOptM: "OptCustomM", GenderOptF: "OptCustomF"}
	opts = cfg.GenderOptions()
	assert.Equal(t, "m", opts["OptCustomM"])
	assert.Equal(t, "f", opts["OptCustomF"])
	// Overrides add to the defaults rather than replacing them.
	assert.Equal(t, "m", opts["OptQIPU5CQN"])
}

func TestTimeOptionsCoverAllBuckets(t *testing.T) {
	cfg := &Config{}
	opts := cfg.TimeOptions()
	require.Len(t, opts, 13)

	seen := make(map[string]bool, len(opts))
	for _, code := range opts {
		seen[code] = true
	}
	for i := 0; i <= 12; i++ {
		assert.True(t, seen[strconv.Itoa(i)], "missing time code %d", i)
	}
}

func TestPurgeChannelFallback(t *testing.T) {
	cfg := &Config{SlackChannelID: "CSHARED"}
	assert.Equal(t, "CSHARED", cfg.PurgeChannel())

	cfg.PurgeChannelID = "CPURGE"
	assert.Equal(t, "CPURGE", cfg.PurgeChannel())
}
