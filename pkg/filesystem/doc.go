// Package filesystem provides filesystem implementations for syplug.
//
// Every types.FS is an adapter over an afero.Fs: OsFs in production,
// MemMapFs for tests that do not need symlinks.
package filesystem
