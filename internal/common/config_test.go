package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "colligo.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFilesDefaults(t *testing.T) {
	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 2, config.Research.ArticleCap)
	assert.Equal(t, 50, config.Research.LoopBound)
	assert.Equal(t, 200, config.Research.MinBodyLength)
	assert.Equal(t, 10, config.Research.CandidateLimit)
	assert.Equal(t, "https://opendart.fss.or.kr/api", config.Dart.BaseURL)
}

func TestLoadFromFilesOverride(t *testing.T) {
	path := writeConfig(t, `
environment = "production"

[research]
article_cap = 5
loop_bound = 100

[schedule]
enabled = true
cron = "0 6 * * 1-5"
`)

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 5, config.Research.ArticleCap)
	assert.Equal(t, 100, config.Research.LoopBound)
	assert.Equal(t, 200, config.Research.MinBodyLength, "unset fields keep defaults")
	assert.True(t, config.Schedule.Enabled)
}

func TestLoadFromFilesLaterFileWins(t *testing.T) {
	first := writeConfig(t, "[research]\narticle_cap = 3\n")
	second := writeConfig(t, "[research]\narticle_cap = 7\n")

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)
	assert.Equal(t, 7, config.Research.ArticleCap)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NAVER_CLIENT_ID", "env-id")
	t.Setenv("NAVER_CLIENT_SECRET", "env-secret")
	t.Setenv("DART_API_KEY", "env-dart")
	t.Setenv("COLLIGO_LOOP_BOUND", "25")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "env-id", config.News.ClientID)
	assert.Equal(t, "env-secret", config.News.ClientSecret)
	assert.Equal(t, "env-dart", config.Dart.APIKey)
	assert.Equal(t, 25, config.Research.LoopBound)
}

func TestValidateRejectsBadValues(t *testing.T) {
	path := writeConfig(t, "[research]\narticle_cap = 0\n")

	_, err := LoadFromFiles(path)
	assert.Error(t, err)
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("*/15 * * * *"))
	assert.NoError(t, ValidateSchedule("0 6 * * 1-5"))
	assert.Error(t, ValidateSchedule(""))
	assert.Error(t, ValidateSchedule("not a cron"))
	assert.Error(t, ValidateSchedule("0 0 0 0 0 0"))
}

func TestValidateScheduleRequiredWhenEnabled(t *testing.T) {
	path := writeConfig(t, "[schedule]\nenabled = true\n")

	_, err := LoadFromFiles(path)
	assert.Error(t, err)
}
