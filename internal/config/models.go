package config

import "time"

// TopLevel wraps the app config so that the yaml file (and env vars) can
// namespace everything under "journey".
type TopLevel struct {
	Journey Journey `json:"journey" mapstructure:"journey"`
}

type Journey struct {
	Server App `json:"server" mapstructure:"server"`
}

type App struct {
	BindAddress     string        `json:"bind_address" mapstructure:"bind_address"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	DataDir         string        `json:"data_dir" mapstructure:"data_dir"`
	Remote          Remote        `json:"remote" mapstructure:"remote"`
	Sync            Sync          `json:"sync" mapstructure:"sync"`
	Modules         Modules       `json:"modules" mapstructure:"modules"`
	ApmClient       *ApmClient    `json:"apm,omitempty" mapstructure:"apm"`
	Logging         *Logging      `json:"logging,omitempty" mapstructure:"logging"`
}

type Logging struct {
	Json  *bool   `json:"json,omitempty" mapstructure:"json"`
	File  *string `json:"file,omitempty" mapstructure:"file"`
	Level *string `json:"level,omitempty" mapstructure:"level"`
}

type ApmClient struct {
	Address     *string `json:"address,omitempty" mapstructure:"address"`
	SecretToken *string `json:"secret_token,omitempty" mapstructure:"secret_token"`
}

type Remote struct {
	RequestTimeout time.Duration `json:"request_timeout" mapstructure:"request_timeout"`
}

type Sync struct {
	// Ttl is how long a successful sync keeps a resource fresh.
	Ttl time.Duration `json:"ttl" mapstructure:"ttl"`
	// FailureBackoff, when non-zero, delays the next refresh attempt for a
	// key after a failed sync. Zero means a failed key is eligible again on
	// the very next call.
	FailureBackoff time.Duration `json:"failure_backoff" mapstructure:"failure_backoff"`
	// PollInterval is how often the background poller re-syncs the course
	// list. Zero disables the poller.
	PollInterval time.Duration `json:"poll_interval" mapstructure:"poll_interval"`
}

type Modules struct {
	// SupportedTypes is the allow-list of module types surfaced by course
	// reads. Unknown types stay in the store but are filtered out of views.
	SupportedTypes []string `json:"supported_types" mapstructure:"supported_types"`
}
