// Package github publishes a plugin project to a new GitHub repository.
//
// Tokens are resolved from configuration, then from the credentials file
// under the syplug config directory, then interactively (OAuth device
// flow when a client id is configured, otherwise a pasted personal
// access token). Interactively obtained tokens are written back to the
// credentials file with owner-only permissions.
package github
