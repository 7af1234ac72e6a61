// Package config loads, normalizes, and validates lyricreel's TOML
// configuration.
//
// Files are resolved from an explicit path, then ~/.config/lyricreel/config.toml,
// then ./lyricreel.toml. A .env file in the working directory may supply API
// keys; values already present in the environment win. Sample configuration
// lives in sample_config.toml and is embedded for `lyricreel config init`.
package config
