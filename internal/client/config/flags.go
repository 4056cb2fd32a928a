package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/useradmin/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     base URL of the user API
//	-t duration   request timeout, e.g. 5s (0 keeps the transport default)
//	-p int        initial page size
//	-m string     mutation mode: confirmed or optimistic
//	-d string     directory of the session database
//
// args are filtered with flagx.FilterArgs first so flags owned by other
// layers (such as -c) do not trip the parser.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-p", "-m", "-d"})

	fs := flag.NewFlagSet("useradmin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the user API")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "initial page size")
	fs.StringVar(&cfg.MutationMode, "m", cfg.MutationMode, "mutation mode (confirmed|optimistic)")
	fs.StringVar(&cfg.SessionDir, "d", cfg.SessionDir, "session directory")

	return fs.Parse(args)
}
