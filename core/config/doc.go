// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/dispatch/core/config"
//
//	type Config struct {
//		Redis    redis.Config
//		Dispatch dispatch.Config
//		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
//	func main() {
//		var cfg Config
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 Config
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 Config
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently:
//
//	type HealthConfig struct {
//		Addr string `env:"HEALTH_ADDR" envDefault:":8080"`
//	}
//
//	type RedisConfig struct {
//		URL string `env:"REDIS_URL,required"`
//	}
//
//	// Each type has its own cache entry
//	config.MustLoad(&HealthConfig{})
//	config.MustLoad(&RedisConfig{})
package config
