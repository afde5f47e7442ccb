package config

import (
	logcfg "github.com/ncobase/accountdesk/logging/logger/config"
	"github.com/spf13/viper"
)

func getLoggerConfig(v *viper.Viper) *logcfg.Config {
	return logcfg.GetConfig(v)
}
