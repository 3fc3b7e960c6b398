// Package taskman holds build metadata for the taskman binary.
package taskman

// Version is the released version of taskman.
const Version = "0.1.0"
