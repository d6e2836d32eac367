// Package logging provides structured logging with per-module log levels.
//
// Initialize the system once at process start:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",               // or "json"
//		File:   "camera_service.log", // optional, appended alongside stdout
//		Modules: map[string]string{
//			"watchdog": "debug",
//		},
//	})
//	defer logging.Close()
//
// Components receive their logger at construction:
//
//	logger := logging.GetLogger("watchdog")
//	logger.Info("service started", "target", name)
//
// Records go to stdout, to the systemd journal when journald is reachable,
// and to the configured log file. Journal output carries structured fields:
//
//	journalctl -t camwatch MODULE=watchdog
package logging
