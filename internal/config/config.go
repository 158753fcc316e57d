package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
)

// DeletePolicy selects how member deletion behaves. Both soft and hard
// deletion exist in deployments of this API, so the choice is
// configuration rather than code.
type DeletePolicy string

const (
	// DeleteSoft flips the active flag and keeps the row.
	DeleteSoft DeletePolicy = "soft"
	// DeleteHard removes the row entirely.
	DeleteHard DeletePolicy = "hard"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The types reflect how the values are used in
// the application: strings for identifiers, ints for counts.
type Config struct {
	Env          string       // application environment (e.g. "dev", "prod")
	Port         string       // HTTP port to listen on
	DBUser       string       // database username
	DBPass       string       // database password (optional)
	DBHost       string       // database host address
	DBPort       string       // database port number
	DBName       string       // database name
	DeletePolicy DeletePolicy // member deletion behaviour: soft or hard
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),      // environment (dev/test/prod)
		Port:         must("APP_PORT"),     // port to bind the HTTP server
		DBUser:       must("DB_USER"),      // database user
		DBPass:       os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:       must("DB_HOST"),      // database host
		DBPort:       must("DB_PORT"),      // database port
		DBName:       must("DB_NAME"),      // database name
		DeletePolicy: loadDeletePolicy(),   // soft (default) or hard
	}
}

// Dev reports whether the service runs in development mode. Error
// responses include underlying detail only in this mode.
func (c Config) Dev() bool { return c.Env == "dev" }

func loadDeletePolicy() DeletePolicy {
	switch os.Getenv("MEMBER_DELETE_POLICY") {
	case "hard":
		return DeleteHard
	case "", "soft":
		return DeleteSoft
	default:
		log.Fatalf("invalid MEMBER_DELETE_POLICY: %q (want soft or hard)", os.Getenv("MEMBER_DELETE_POLICY"))
		return DeleteSoft
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
