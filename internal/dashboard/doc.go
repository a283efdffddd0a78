// Package dashboard runs the refresh loop.
//
// Each tick, in order:
//
//  1. drain buffered keys from the terminal
//  2. feed them through the interaction machine, performing any confirmed
//     kill before the next key is handled
//  3. expire the status message if its time has passed
//  4. collect a fresh metrics snapshot
//  5. render and present the frame
//  6. sleep for the rest of the interval
//
// The Scheduler is the only writer of interaction state, so nothing here
// needs a lock. Terminal restoration is the caller's job; Run returns on
// Interrupt or when its context is cancelled.
package dashboard
