// Package config manages user-level settings stored at ~/.calc/config.yaml.
// Values resolve in viper's usual order: explicit flags bound by the CLI,
// CALC_* environment variables, the config file, then built-in defaults.
package config
