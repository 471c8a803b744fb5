package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// loadDotEnv is a seam for godotenv.Load. A missing .env file is fine: the
// process environment is used as is.
var loadDotEnv = func() {
	_ = godotenv.Load()
}

// parseEnv overlays values from environment variables. NODE_ENV is honoured
// as a fallback for APP_ENV so existing deployments keep their setting.
func parseEnv(c *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("SESSION_SECRET", &c.SessionSecret)
	str("DATABASE_URL", &c.DatabaseDSN)
	str("NODE_ENV", &c.Environment)
	str("APP_ENV", &c.Environment)
	str("S3_ROOT_USER", &c.S3RootUser)
	str("S3_ROOT_PASSWORD", &c.S3RootPassword)
	str("S3_BUCKET", &c.S3Bucket)
	str("S3_REGION", &c.S3Region)
	str("S3_BASE_ENDPOINT", &c.S3BaseEndpoint)
	str("USERNAME_PREFIX", &c.UsernamePrefix)

	if v, ok := lookup("PORT"); ok && v != "" {
		c.EndpointAddrHTTP = ":" + strings.TrimPrefix(v, ":")
	}
	if v, ok := lookup("ALLOWED_USERNAMES"); ok && v != "" {
		c.AllowedUsernames = splitList(v)
	}
	if v, ok := lookup("DEBUG"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
	if v, ok := lookup("REMEMBER_ME_DURATION"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			c.RememberMeDuration = d
		}
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
