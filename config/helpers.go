package config

import "github.com/spf13/viper"

// lookup reads key with get when it is set, otherwise returns def.
func lookup[T any](v *viper.Viper, key string, def T, get func(string) T) T {
	if !v.IsSet(key) {
		return def
	}
	return get(key)
}
