// Package scanrun drives complete library scans.
//
// Run performs one scan of every configured library folder under a process
// lock, tagging all log lines and catalogued records with a fresh run ID.
// Daemon runs a scan immediately and then re-scans on the configured cron
// schedule until its context is cancelled.
package scanrun
