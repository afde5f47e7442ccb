package config

import (
	"time"

	"github.com/spf13/viper"
)

// Session holds inactivity timeout settings
type Session struct {
	Timeout     time.Duration
	WarningLead time.Duration
}

// Draft holds form draft settings
type Draft struct {
	TTL           time.Duration
	AutosaveDelay time.Duration
}

func getSessionConfig(v *viper.Viper) *Session {
	return &Session{
		Timeout:     v.GetDuration("session.timeout"),
		WarningLead: v.GetDuration("session.warning_lead"),
	}
}

func getDraftConfig(v *viper.Viper) *Draft {
	return &Draft{
		TTL:           v.GetDuration("draft.ttl"),
		AutosaveDelay: v.GetDuration("draft.autosave_delay"),
	}
}
