// Package logging provides slog loggers with per-module levels.
//
// Call Setup once at startup, then ask for a module logger:
//
//	logging.Setup(logging.Config{
//		Level:   "info",
//		Format:  "text",
//		Modules: map[string]string{"api": "debug"},
//	})
//	logger := logging.GetLogger("api")
//	logger.Debug("Resolved command", "state", name)
//
// Every record goes to stdout (text or json), to the systemd journal when
// journald is reachable, and to an in-memory ring buffer that backs the
// /api/logs/stream endpoint. Loggers obtained before Setup keep working;
// their levels follow later Setup calls.
//
// On systemd hosts:
//
//	journalctl -t transcodeargs -f
//	journalctl -t transcodeargs MODULE=api -p warning
//
// TOML layout read by config.LoadLoggingConfig:
//
//	[logging]
//	level = "info"
//	format = "json"
//	api = "debug"
package logging
