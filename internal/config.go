package internal

import "time"

type Config struct {
	Host                 string        `env:"HOST,default=0.0.0.0"`
	Port                 int           `env:"PORT,default=8080"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	LimitMessages        *int          `env:"LIMIT_MESSAGES"`
	EventStoreCapacity   int           `env:"EVENT_STORE_CAPACITY,default=1000"`
	EventStoreTTL        time.Duration `env:"EVENT_STORE_TTL,default=24h"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	SendTimeout          time.Duration `env:"SEND_TIMEOUT,default=5s"`
	KeepaliveInterval    time.Duration `env:"KEEPALIVE_INTERVAL,default=30s"`
	IdleTimeoutFactor    int           `env:"IDLE_TIMEOUT_FACTOR,default=3"`
	PullMaxLifetime      time.Duration `env:"PULL_MAX_LIFETIME,default=5m"`
	PollInterval         time.Duration `env:"POLL_INTERVAL,default=2s"`
	ReapInterval         time.Duration `env:"REAP_INTERVAL,default=30s"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=5s"`
}

// IdleTimeout is how long a session may stay silent before the reaper takes
// it. Expressed as a multiple of the keepalive interval so a client may miss
// a few keepalives before being declared dead.
func (c Config) IdleTimeout() time.Duration {
	return c.KeepaliveInterval * time.Duration(c.IdleTimeoutFactor)
}
