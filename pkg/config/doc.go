// Package config loads configuration structs from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - Optional `.env` files are loaded first (the default `.env` in the
//     working directory, or the files passed via WithEnvFiles).
//   - The process environment is parsed into any Go struct using `env` tags.
//   - WithPrefix scopes a struct to a variable namespace so several
//     components can share one environment.
//
// # Usage
//
//	type LogConfig struct {
//	    Level  string `env:"LOG_LEVEL" envDefault:"info"`
//	    Format string `env:"LOG_FORMAT" envDefault:"json"`
//	}
//
//	var cfg LogConfig
//	if err := config.Load(&cfg, config.WithPrefix("FSM_")); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// # Error Handling
//
// Errors can be compared with `errors.Is`:
//
//   - `ErrParsingConfig` – failed to parse env vars into struct.
//   - `ErrEnvFile`       – an explicit .env file could not be loaded.
//   - `ErrNilPointer`    – nil pointer passed to `Load`/`MustLoad`.
package config
