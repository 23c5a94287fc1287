package internal

import "time"

type Config struct {
	GatewayURL   string        `env:"GATEWAY_URL,required=true"`
	GatewayToken string        `env:"GATEWAY_TOKEN,required=true"`
	OwnerID      int64         `env:"OWNER_ID,required=true"`
	CallTimeout  time.Duration `env:"CALL_TIMEOUT,required=true"`

	BadgerFilepath string  `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  *string `env:"BLUGE_FILEPATH"`

	LogLevel        string        `env:"LOG_LEVEL,required=true"`
	BufferSize      int           `env:"BUFFER_SIZE,required=true"`
	NumberOfWorkers int           `env:"NUMBER_OF_WORKERS,required=true"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,required=true"`

	// ExtendedAdminCommands turns on the full command surface
	// (unapprove, makeadmin, help, uptime, status). Off leaves the
	// minimal approve-only flavor.
	ExtendedAdminCommands bool `env:"EXTENDED_ADMIN_COMMANDS,required=true"`

	// DebugPort exposes the read-only store inspector when set.
	DebugPort *int `env:"DEBUG_PORT"`
}
