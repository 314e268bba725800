// Package config loads and validates escposd configuration.
//
// Configuration comes from a YAML file with environment variable overrides
// (ESCPOS_* prefix). Defaults are applied before the file is parsed, so a
// minimal config only needs the values that differ from the defaults.
//
// Secrets (JWT signing secret, admin password, MQTT credentials, InfluxDB
// token) should be supplied via environment variables rather than the file.
package config
