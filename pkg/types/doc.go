// Package types defines the Task entity, the Store interface, configuration,
// and the standard errors shared by every taskman package.
package types
