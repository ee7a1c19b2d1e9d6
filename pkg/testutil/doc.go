// Package testutil provides utilities for testing syplug components.
//
// Key components:
//   - ProjectEnv: an isolated plugin project plus plugins directory, with
//     every environment variable syplug reads pointed at temp locations
//   - file helpers that fail the test instead of returning errors
//   - RequireSymlinks: skips tests on systems that refuse symlink creation
//
// Each test should be completely isolated with no shared state.
package testutil
