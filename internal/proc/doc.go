// Package proc terminates local processes on the operator's behalf.
//
// Controller.Terminate sends SIGTERM, polls for exit up to a timeout, and
// escalates to SIGKILL. Outcomes that an operator can act on (the process
// was already gone, or belongs to another user) are reported as Outcome
// values rather than errors.
package proc
