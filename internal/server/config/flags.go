package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/freezeraudit/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN
//	-s string   session signing secret
//	-m string   environment ("development" or "production")
//	-r int      remember-me cookie lifetime, hours
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name (empty disables export archives)
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-debug      enable debug logging
//
// Only these flags are picked out of args, so the admin CLI can share the
// command line with its own subcommand flags.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-m", "-r", "-u", "-p", "-b", "-g", "-e", "-debug"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret")
	fs.StringVar(&config.Environment, "m", config.Environment, "environment (development|production)")

	rememberMe := fs.Int("r", int(config.RememberMeDuration.Hours()), "remember-me cookie lifetime (in hours)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 export bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.BoolVar(&config.Debug, "debug", config.Debug, "debug logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -r is whole hours; leave finer values from env or JSON alone unless it was given
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "r" {
			config.RememberMeDuration = time.Duration(*rememberMe) * time.Hour
		}
	})
}
