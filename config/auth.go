package config

import (
	"time"

	"github.com/spf13/viper"
)

// Auth auth config struct
type Auth struct {
	JWT       *JWT
	LoginRate *LoginRate
}

// getAuth returns the auth config.
func getAuth(v *viper.Viper) *Auth {
	return &Auth{
		JWT:       getJWT(v),
		LoginRate: getLoginRate(v),
	}
}

// JWT jwt config struct
type JWT struct {
	Secret        string
	AccessExpire  time.Duration
	RefreshExpire time.Duration
}

// getJWT returns the jwt config.
func getJWT(v *viper.Viper) *JWT {
	return &JWT{
		Secret:        v.GetString("auth.jwt.secret"),
		AccessExpire:  v.GetDuration("auth.jwt.access_expire"),
		RefreshExpire: v.GetDuration("auth.jwt.refresh_expire"),
	}
}

// LoginRate limits login attempts per client
type LoginRate struct {
	PerMinute int
	Burst     int
}

func getLoginRate(v *viper.Viper) *LoginRate {
	return &LoginRate{
		PerMinute: lookup(v, "auth.login_rate.per_minute", 10, v.GetInt),
		Burst:     lookup(v, "auth.login_rate.burst", 5, v.GetInt),
	}
}
