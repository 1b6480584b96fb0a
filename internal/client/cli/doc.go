// Package cli is the interactive telepharmacy identity client.
//
// NewApp opens the session store (SQLite file or Redis), connects to the
// server or falls back to an in-process backend, and restores the saved
// session. Run blocks on that restore before the first prompt, so every
// command sees the user as of the last run.
package cli
