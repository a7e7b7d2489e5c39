/*
Copyright © 2018 the surfkin authors.
This file is part of surfkin.

surfkin is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

surfkin is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with surfkin.  If not, see <http://www.gnu.org/licenses/>.
*/

package surfkin

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFinalized is returned by rate queries made before Finalize.
	ErrNotFinalized = errors.New("surfkin: kinetics has not been finalized")

	// ErrFinalized is returned when setup operations are attempted
	// after Finalize.
	ErrFinalized = errors.New("surfkin: kinetics has already been finalized")
)

// UsageError reports an invalid reaction specification or an invalid
// call (bad index, short output slice, call in the wrong lifecycle stage).
type UsageError struct {
	Op       string // operation, e.g. "AddReaction"
	Reaction string // reaction equation, if any
	Msg      string
	Err      error
}

func (e *UsageError) Error() string {
	s := "surfkin: " + e.Op + ": "
	if e.Msg != "" {
		s += e.Msg
	} else if e.Err != nil {
		s += e.Err.Error()
	}
	if e.Reaction != "" {
		s += fmt.Sprintf(" in reaction '%s'", e.Reaction)
	}
	return s
}

func (e *UsageError) Unwrap() error { return e.Err }

// ConfigurationError reports a phase set that cannot support interface
// or edge kinetics. It is returned by Finalize.
type ConfigurationError struct {
	Op  string
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "surfkin: " + e.Op + ": " + e.Msg
}

// InternalError reports broken internal bookkeeping. It indicates a bug
// rather than bad input.
type InternalError struct {
	Op  string
	Msg string
}

func (e *InternalError) Error() string {
	return "surfkin: internal error in " + e.Op + ": " + e.Msg
}

func usageErrorf(op, format string, args ...interface{}) error {
	return &UsageError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

func notFinalized(op string) error {
	return &UsageError{Op: op, Err: ErrNotFinalized}
}

// checkLen returns an error if a caller-supplied slice is too short.
func checkLen(op, what string, have, want int) error {
	if have < want {
		return usageErrorf(op, "%s has length %d; need at least %d", what, have, want)
	}
	return nil
}
