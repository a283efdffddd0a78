// Package interact implements the dashboard's modal key handling.
//
// The Machine owns the only state that survives across ticks: the mode, the
// selected process row, the process awaiting kill confirmation, and a timed
// status message. Keys are routed through an explicit transition table:
//
//	Normal  --k-->    Select   (row 0, status cleared)
//	Select  --up/dn-> Select   (clamped to the list)
//	Select  --k-->    Confirm  (ignored on an empty list)
//	Select  --esc-->  Normal   ("Cancelled process selection")
//	Confirm --y-->    Normal   (emits ActionTerminate)
//	Confirm --n/esc-> Normal   ("Kill cancelled")
//
// Interrupt quits from any mode. Status messages carry an expiry timestamp
// that the scheduler checks once per tick with ExpireStatus; there is no
// background timer.
package interact
