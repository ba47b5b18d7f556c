// Package config holds cloudctl settings. Values are layered: defaults,
// then an optional JSON or YAML file, then CLOUDSTORE_* environment
// variables. Command-line flags are applied last by the caller.
package config
