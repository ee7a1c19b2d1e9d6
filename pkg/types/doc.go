// Package types holds the small interfaces shared across syplug packages.
package types
