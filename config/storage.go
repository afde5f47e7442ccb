package config

import (
	"github.com/spf13/viper"
)

// Storage selects and configures the key-value medium
type Storage struct {
	Driver   string // memory, bolt, redis, sqlite, postgres
	Path     string // bolt and sqlite file
	Addr     string // redis
	Password string // redis
	DB       int    // redis
	Prefix   string // redis key namespace
	DSN      string // postgres
}

// getStorageConfig get storage config
func getStorageConfig(v *viper.Viper) *Storage {
	return &Storage{
		Driver:   v.GetString("storage.driver"),
		Path:     v.GetString("storage.path"),
		Addr:     v.GetString("storage.addr"),
		Password: v.GetString("storage.password"),
		DB:       v.GetInt("storage.db"),
		Prefix:   v.GetString("storage.prefix"),
		DSN:      v.GetString("storage.dsn"),
	}
}
