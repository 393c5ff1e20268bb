// Package kflags provides the small flag registration abstraction used by
// the Flags structs of the libraries.
//
// Every library exposes a Flags struct with a DefaultFlags() constructor and
// a Register(set FlagSet, prefix string) method. Both *flag.FlagSet from the
// standard library and *pflag.FlagSet (as used by cobra) satisfy FlagSet.
package kflags

import (
	"fmt"
	"time"
)

type FlagSet interface {
	BoolVar(p *bool, name string, value bool, usage string)
	DurationVar(p *time.Duration, name string, value time.Duration, usage string)
	StringVar(p *string, name string, value string, usage string)
	IntVar(p *int, name string, value int, usage string)
}

// UsageError is returned when the configuration supplied by the user is invalid.
//
// Binaries use it to tell apart configuration mistakes, for which printing
// the usage is helpful, from runtime failures.
type UsageError struct {
	err error
}

func (ue *UsageError) Error() string {
	return ue.err.Error()
}

func (ue *UsageError) Unwrap() error {
	return ue.err
}

func NewUsageError(err error) *UsageError {
	return &UsageError{err: err}
}

func NewUsageErrorf(format string, args ...interface{}) *UsageError {
	return NewUsageError(fmt.Errorf(format, args...))
}
