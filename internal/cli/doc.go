// Package cli implements the sysview command-line interface.
//
// The root command runs the dashboard. It owns every piece of terminal state:
// raw mode comes from the input reader, the alternate screen from the render
// screen, and both are released by deferred calls that also run when the
// dashboard panics. SIGINT, SIGTERM and SIGHUP cancel the loop's context so
// the same cleanup runs on external termination.
//
// # Command Structure
//
//	sysview             - interactive dashboard
//	sysview snapshot    - print one frame, no raw mode
//	sysview config      - print the effective configuration as YAML
//	sysview version     - build information
//	sysview completion  - shell completion scripts
//
// # Flag Handling
//
// Persistent flags (--config, --interval, --top, --no-gpu, --log-file) are
// defined on the root command and handed to config.Load as a flag set, so
// only flags the user actually set override the file and environment.
package cli
