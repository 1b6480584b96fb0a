// Package client contains the CLI's view of the identity backend.
//
// Backend is the credential and profile contract as one interface. Two
// implementations satisfy it: LocalBackend runs the in-memory stores in
// process, GRPCClient talks to a remote identity server. Callers cannot
// tell them apart; both report failures with the sentinel errors from
// package common, so errors.Is works the same on either side.
//
// InitDatabase and InitRedis open the local key/value region the session
// is persisted to.
package client
