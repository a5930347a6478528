// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains shared utilities, in-process background jobs, circuit
// breaking for side channels, and the chat and email clients used for
// submission notifications.
package lib
