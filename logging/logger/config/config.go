package config

import (
	"github.com/spf13/viper"
)

// Config configuration struct
type Config struct {
	Level           int              `json:"level" yaml:"level"`
	Format          string           `json:"format" yaml:"format"`
	Output          string           `json:"output" yaml:"output"`
	OutputFile      string           `json:"output_file" yaml:"output_file"`
	Desensitization *Desensitization `json:"desensitization" yaml:"desensitization"`
}

// Default logger settings
const (
	DefaultLevel  = 4 // logrus.InfoLevel
	DefaultFormat = "text"
	DefaultOutput = "stderr"
)

// GetConfig returns the logger configuration
func GetConfig(v *viper.Viper) *Config {
	cfg := &Config{
		Level:           DefaultLevel,
		Format:          DefaultFormat,
		Output:          DefaultOutput,
		Desensitization: getDesensitizationConfigs(v),
	}
	if v.IsSet("logger.level") {
		cfg.Level = v.GetInt("logger.level")
	}
	if s := v.GetString("logger.format"); s != "" {
		cfg.Format = s
	}
	if s := v.GetString("logger.output"); s != "" {
		cfg.Output = s
	}
	cfg.OutputFile = v.GetString("logger.output_file")
	return cfg
}
