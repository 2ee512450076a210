// Package config loads the dashboard server configuration from config.yaml.
//
// Config fields:
//   - Server.HTTPPort         : REST API, WebSocket stream and /metrics (default 8080)
//   - Server.Auth             : "apikey" or "none"; key resolved from Auth.KeyEnv
//   - Server.StreamInterval   : WebSocket push interval (default 5s)
//   - Dataset.Source          : JSON snapshot file path or http(s) URL (required)
//   - Dataset.RefreshInterval : reload period (default 5m)
//   - Dataset.Watch           : reload a local file on write
//   - Dataset.MaxAge          : report age after which health is "stale" (default 30m)
//   - Dashboard.TopJobs       : job table size (default 10, 0 = all)
//   - Alerts.*                : rule thresholds, notify cooldown, webhooks
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, fn) reloads on file writes and calls fn with the new Config.
package config
