package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/freezeraudit/internal/flagx"
	"github.com/dmitrijs2005/freezeraudit/internal/timex"
)

// JsonConfig is the on-disk shape of the optional config file. Every field
// is optional: only the keys present in the file override earlier layers.
type JsonConfig struct {
	EndpointAddrHTTP   *string         `json:"endpoint_addr_http"`
	DatabaseDSN        *string         `json:"database_dsn"`
	SessionSecret      *string         `json:"session_secret"`
	Environment        *string         `json:"environment"`
	Debug              *bool           `json:"debug"`
	RememberMeDuration *timex.Duration `json:"remember_me_duration"`
	HealthcheckTimeout *timex.Duration `json:"healthcheck_timeout"`
	ShutdownTimeout    *timex.Duration `json:"shutdown_timeout"`
	AllowedUsernames   []string        `json:"allowed_usernames"`
	UsernamePrefix     *string         `json:"username_prefix"`
	S3RootUser         *string         `json:"s3_root_user"`
	S3RootPassword     *string         `json:"s3_root_password"`
	S3Bucket           *string         `json:"s3_bucket"`
	S3Region           *string         `json:"s3_region"`
	S3BaseEndpoint     *string         `json:"s3_base_endpoint"`
	ExportURLValidity  *timex.Duration `json:"export_url_validity"`
}

// parseJson loads the file named by -c/-config, if any, into config.
// An unreadable file or invalid JSON panics: a config file that was asked
// for but cannot be used is a startup error.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SessionSecret, c.SessionSecret)
	setString(&config.Environment, c.Environment)
	setString(&config.UsernamePrefix, c.UsernamePrefix)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.Debug != nil {
		config.Debug = *c.Debug
	}
	if c.AllowedUsernames != nil {
		config.AllowedUsernames = c.AllowedUsernames
	}
	if c.RememberMeDuration != nil {
		config.RememberMeDuration = c.RememberMeDuration.Duration
	}
	if c.HealthcheckTimeout != nil {
		config.HealthcheckTimeout = c.HealthcheckTimeout.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.ExportURLValidity != nil {
		config.ExportURLValidity = c.ExportURLValidity.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
