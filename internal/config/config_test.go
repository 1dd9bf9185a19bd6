package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Morwran/yagpt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LLM_PROVIDER", "OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL",
		"YANDEX_OAUTH_TOKEN", "YANDEX_FOLDER_ID", "LLM_TIMEOUT", "BRAND_NAME",
		"DATA_DIR", "LOGS_DIR", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, "Shoply", cfg.BrandName)
	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, 15*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "gpt-4o-mini", cfg.Model())
}

func TestLoad_MissingAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoad_EnvFileDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("BRAND_NAME", "FromEnv")

	path := filepath.Join(t.TempDir(), ".env")
	content := "OPENAI_API_KEY=sk-file\nBRAND_NAME=FromFile\nOPENAI_MODEL=gpt-file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-file", cfg.OpenAIAPIKey)
	assert.Equal(t, "FromEnv", cfg.BrandName)
	assert.Equal(t, "gpt-file", cfg.OpenAIModel)
}

func TestValidate_Yandex(t *testing.T) {
	cfg := &Config{LLMProvider: ProviderYandex, LLMTimeout: time.Second}
	require.ErrorIs(t, cfg.Validate(), ErrMissingYandexCredentials)

	cfg.YandexOAuthToken = "token"
	cfg.YandexFolderID = "folder"
	require.NoError(t, cfg.Validate())
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := &Config{LLMProvider: "mystery", OpenAIAPIKey: "k", LLMTimeout: time.Second}
	assert.Error(t, cfg.Validate())
}

func TestLoad_ProviderIsCaseInsensitive(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)

	t.Setenv("LLM_PROVIDER", " Yandex ")
	t.Setenv("YANDEX_OAUTH_TOKEN", "tok")
	t.Setenv("YANDEX_FOLDER_ID", "folder")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderYandex, cfg.LLMProvider)
	assert.Equal(t, yagpt.YaModelLite, cfg.Model())
}
