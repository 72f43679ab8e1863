/*
 * errors.go, part of idock.
 *
 * Copyright 2024 Anna Nguyen <annanguyen99{at}gmailDOTcom>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package dock

import "fmt"

// Error is the interface for errors that this library produces. The Decorate
// method allows adding info from the callers as the error goes up the stack,
// without changing its type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string
}

// ParseError reports a malformed PDBQT file. A ligand that fails with a
// ParseError is skipped; screening continues with the next one.
type ParseError struct {
	File   string
	Line   int
	Reason string
	deco   []string
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", err.File, err.Line, err.Reason)
}

func (err *ParseError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// errDecorate asserts that err implements Error and decorates it with the
// caller's name before returning it. Calling it with anything else is a
// programming error and panics.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}
