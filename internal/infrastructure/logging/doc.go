// Package logging provides structured logging built on log/slog.
//
// All log output carries the service name and build version so that
// aggregated logs from multiple daemons can be filtered. Output format
// (json or text), destination (stdout or stderr), and minimum level are
// driven by the logging section of the configuration file.
//
// Components obtain scoped loggers via With:
//
//	log := logging.New(cfg.Logging, version)
//	bridgeLog := log.With("component", "bridge")
package logging
