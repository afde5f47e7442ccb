package config

import "github.com/google/wire"

// ProviderSet hands the sections of a loaded Config to the injectors.
var ProviderSet = wire.NewSet(wire.FieldsOf(new(*Config), "Logger", "Auth", "Email"))
