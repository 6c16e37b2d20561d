// Package config handles configuration loading for startup-mcp.
//
// # Overview
//
// Configuration is layered: built-in defaults, then an optional YAML or
// TOML file, then environment variables. Validation runs last.
//
// # Configuration File
//
// Lookup order:
//
//  1. The -config flag
//  2. Path from STARTUP_MCP_CONFIG environment variable
//  3. $XDG_CONFIG_HOME/startup-mcp/config.yaml (~/.config if unset)
//
// The format follows the extension (.yaml, .yml, .toml).
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  token: "${AUTH_TOKEN}"
//
// # Environment Overrides
//
// These variables win over file values when set:
//
//	AUTH_TOKEN     auth.token
//	MY_NUMBER      owner.phone
//	HOST, PORT     server.host, server.port
//	JWT_SECRET     auth.jwt_secret
//	LOG_LEVEL      logging.level
//	LOG_FORMAT     logging.format
//	FETCH_TIMEOUT  fetch.timeout
//	DEMO_ENABLED   demo.enabled
//
// A .env file in the working directory is loaded first unless ENV is
// "production" or "prod". Variables already set in the process environment
// are not overwritten by .env.
package config
