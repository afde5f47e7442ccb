// Package config loads accountdesk settings with Viper. Environment variables
// prefixed ACCOUNTDESK_ override the config file, which overrides built-in
// defaults. A missing config file is not an error unless a path was given.
//
// # Configuration Format
//
//	app_name: accountdesk
//	server:
//	  host: 127.0.0.1
//	  port: 8080
//	api:
//	  base_url: http://127.0.0.1:8080/api
//	  timeout: 10s
//	storage:
//	  driver: bolt        # memory | bolt | redis | sqlite | postgres
//	  path: accountdesk.db
//	session:
//	  timeout: 60m
//	  warning_lead: 5m
//	draft:
//	  ttl: 24h
//	  autosave_delay: 3s
//	logger:
//	  level: 4
//	  format: text
//	  output: stderr
//
// # Hot Reload
//
//	ok := config.Watch(func(cfg *config.Config) {
//	    log.SetLevelFrom(cfg.Logger)
//	})
//
// Watch reports false when the settings came from defaults only.
package config
