package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/ncobase/accountdesk/logging/logger"
	logcfg "github.com/ncobase/accountdesk/logging/logger/config"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. ACCOUNTDESK_STORAGE_DRIVER.
const EnvPrefix = "ACCOUNTDESK"

var (
	config *Config
	path   string
	mu     sync.Mutex
	v      = viper.New()
)

// Config represents the configuration implementation.
type Config struct {
	AppName string
	RunMode string
	Host    string
	Port    int
	API     *API
	Storage *Storage
	Session *Session
	Draft   *Draft
	Auth    *Auth
	Email   *Email
	Logger  *logcfg.Config
	Viper   *viper.Viper
}

// Addr returns the mock backend listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetConfig returns the last loaded configuration, loading defaults if none was loaded.
func GetConfig() (*Config, error) {
	mu.Lock()
	cfg := config
	mu.Unlock()
	if cfg != nil {
		return cfg, nil
	}
	return LoadConfig("")
}

// LoadConfig loads the configuration from the file. An empty path searches the
// default locations and falls back to built-in defaults when nothing is found.
func LoadConfig(configPath string) (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	nv := viper.New()
	setDefaults(nv)
	nv.SetEnvPrefix(EnvPrefix)
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	if configPath != "" {
		nv.SetConfigFile(configPath)
	} else {
		nv.SetConfigName("config")
		nv.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			nv.AddConfigPath(filepath.Join(home, ".accountdesk"))
		}
		nv.AddConfigPath("/etc/accountdesk")
	}

	if err := nv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		AppName: nv.GetString("app_name"),
		RunMode: nv.GetString("run_mode"),
		Host:    nv.GetString("server.host"),
		Port:    nv.GetInt("server.port"),
		API:     getAPIConfig(nv),
		Storage: getStorageConfig(nv),
		Session: getSessionConfig(nv),
		Draft:   getDraftConfig(nv),
		Auth:    getAuth(nv),
		Email:   getEmailConfig(nv),
		Logger:  getLoggerConfig(nv),
		Viper:   nv,
	}

	v = nv
	path = configPath
	config = cfg
	return cfg, nil
}

// Reload reloads the configuration from the file.
func Reload() (*Config, error) {
	mu.Lock()
	p := path
	mu.Unlock()
	cfg, err := LoadConfig(p)
	if err != nil {
		return nil, fmt.Errorf("failed to reload config: %w", err)
	}
	return cfg, nil
}

// Watch reloads the configuration whenever its file changes and hands the
// result to callback. It reports false when no file was loaded.
func Watch(callback func(*Config)) bool {
	mu.Lock()
	cur := v
	mu.Unlock()
	if cur.ConfigFileUsed() == "" {
		return false
	}
	cur.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := Reload()
		if err != nil {
			logger.StdLogger().Error(context.Background(), "Error reloading config", "file", e.Name, "error", err)
			return
		}
		callback(cfg)
	})
	cur.WatchConfig()
	return true
}
