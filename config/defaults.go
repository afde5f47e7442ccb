package config

import (
	"time"

	"github.com/ncobase/accountdesk/consts"
	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "accountdesk")
	v.SetDefault("run_mode", "release")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)

	v.SetDefault("api.base_url", "http://127.0.0.1:8080/api")
	v.SetDefault("api.timeout", 10*time.Second)

	v.SetDefault("storage.driver", "bolt")
	v.SetDefault("storage.path", "accountdesk.db")
	v.SetDefault("storage.prefix", "accountdesk:")

	v.SetDefault("session.timeout", consts.DefaultSessionTimeout)
	v.SetDefault("session.warning_lead", consts.DefaultWarningLead)
	v.SetDefault("draft.ttl", consts.DefaultDraftTTL)
	v.SetDefault("draft.autosave_delay", consts.DefaultAutosaveDelay)

	v.SetDefault("auth.jwt.secret", "accountdesk-dev-secret")
	v.SetDefault("auth.jwt.access_expire", time.Hour)
	v.SetDefault("auth.jwt.refresh_expire", 7*24*time.Hour)
	v.SetDefault("auth.login_rate.per_minute", 10)
	v.SetDefault("auth.login_rate.burst", 5)

	v.SetDefault("email.provider", "log")
}
