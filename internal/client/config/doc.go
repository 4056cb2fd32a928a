// Package config loads runtime configuration for the useradmin console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c or -config.
//  3. Environment variables with the USERADMIN_ prefix.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string     base URL of the user API
//	-t duration   request timeout (0 keeps the transport default)
//	-p int        initial page size (5, 10 or 25)
//	-m string     mutation mode: confirmed or optimistic
//	-d string     directory of the session database
//
// # Environment
//
//	USERADMIN_API_BASE_URL, USERADMIN_REQUEST_TIMEOUT, USERADMIN_SESSION_DIR,
//	USERADMIN_SESSION_DB, USERADMIN_PAGE_SIZE, USERADMIN_MUTATION_MODE,
//	USERADMIN_LOG_LEVEL, USERADMIN_LOG_BACKEND
//
// # File schema
//
// Durations can be strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8080",
//	  "request_timeout": "5s",
//	  "page_size": 25,
//	  "mutation_mode": "optimistic",
//	  "log_backend": "zap"
//	}
//
// The same keys are used in YAML.
package config
