package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultTextProxyURL     = "https://r.jina.ai/"
	defaultCategoryCountTTL = time.Minute
	defaultPDF              = "/assets/TaskBook16068-10042025.pdf"
	defaultAudioFixture     = "/assets/audio_resumen.mp3"
	defaultVideoFixture     = "/assets/video_resumen.mp4"
)

// Hosts known to refuse frame embedding.
var defaultEmbedBlocklist = []string{"pmc.ncbi.nlm.nih.gov", "www.ncbi.nlm.nih.gov"}

var defaultPDFAssets = map[string]string{
	"1": "/assets/TaskBook16068-10042025.pdf",
	"2": "/assets/PMC1515272.pdf",
}

type Config struct {
	config *viper.Viper
}

func Load(env string) (*Config, error) {

	if len(env) == 0 {
		if env = os.Getenv(keyEnv); len(env) == 0 {
			env = envLocal
		}
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	setDefaults(viperConfig)
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("backend.text_proxy_url", defaultTextProxyURL)
	v.SetDefault("categories.count_ttl", defaultCategoryCountTTL)
	v.SetDefault("chat.local_fallback", true)
	v.SetDefault("media.embed_blocklist", defaultEmbedBlocklist)
	v.SetDefault("media.pdf_assets", defaultPDFAssets)
	v.SetDefault("media.default_pdf", defaultPDF)
	v.SetDefault("media.audio_fixture", defaultAudioFixture)
	v.SetDefault("media.video_fixture", defaultVideoFixture)
}

// Set overrides a configuration key. Intended for tests and flags.
func (c *Config) Set(key string, value any) {
	c.config.Set(key, value)
}

func (c *Config) GetPort() string {
	port := c.config.GetString("PORT")
	if len(port) == 0 {
		port = c.config.GetString("server.port")
	}

	return port
}

// GetBackendURL is the base URL of the article/chat backend. Every gateway call is built on it.
func (c *Config) GetBackendURL() string {
	backendURL := c.config.GetString("BACKEND_URL")
	if len(backendURL) == 0 {
		backendURL = c.config.GetString("backend.base_url")
	}

	return backendURL
}

func (c *Config) GetTextProxyURL() string {
	proxyURL := c.config.GetString("TEXT_PROXY_URL")
	if len(proxyURL) == 0 {
		proxyURL = c.config.GetString("backend.text_proxy_url")
	}

	return proxyURL
}

func (c *Config) GetKVDBPath() string {
	kvdbPath := c.config.GetString("KVDB_PATH")
	if len(kvdbPath) == 0 {
		kvdbPath = c.config.GetString("database.kvdb_path")
	}

	return kvdbPath
}

func (c *Config) GetIndexPath() string {
	indexPath := c.config.GetString("INDEX_PATH")
	if len(indexPath) == 0 {
		indexPath = c.config.GetString("database.index_path")
	}

	return indexPath
}

func (c *Config) GetStoragePath() string {
	storagePath := c.config.GetString("STORAGE_PATH")
	if len(storagePath) == 0 {
		storagePath = c.config.GetString("database.storage_path")
	}

	return storagePath
}

func (c *Config) GetLogFile() string {
	logFile := c.config.GetString("LOG_FILE")
	if len(logFile) == 0 {
		logFile = c.config.GetString("logging.file")
	}

	return logFile
}

func (c *Config) GetCategoryCountTTL() time.Duration {
	return c.config.GetDuration("categories.count_ttl")
}

func (c *Config) GetChatLocalFallback() bool {
	return c.config.GetBool("chat.local_fallback")
}

func (c *Config) GetEmbedBlocklist() []string {
	return c.config.GetStringSlice("media.embed_blocklist")
}

func (c *Config) GetPDFAssets() map[string]string {
	return c.config.GetStringMapString("media.pdf_assets")
}

func (c *Config) GetDefaultPDF() string {
	return c.config.GetString("media.default_pdf")
}

func (c *Config) GetAudioFixture() string {
	return c.config.GetString("media.audio_fixture")
}

func (c *Config) GetVideoFixture() string {
	return c.config.GetString("media.video_fixture")
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
