// Package accounts holds the account lifecycle commands: registration,
// password reset, reset session checks, and profile updates. Each command is
// a message plus a handler that runs the whole operation, audit write
// included, inside a single transaction.
package accounts
