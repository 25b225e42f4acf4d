// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Kind classifies a revert.
type Kind uint8

const (
	// Validation rejects caller input before any mutation.
	Validation Kind = iota + 1
	// Resource reports a missing balance, capacity or relationship.
	Resource
	// Bound reports an exceeded fixed limit.
	Bound
	// Arithmetic reports a checked overflow or underflow.
	Arithmetic
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Resource:
		return "resource"
	case Bound:
		return "bound"
	case Arithmetic:
		return "arithmetic"
	default:
		return "unknown"
	}
}

type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// IsRevertErr reports whether err is, or wraps, a revert of any kind.
func IsRevertErr(err any) bool {
	_, ok := KindOf(err)
	return ok
}

// IsArithmetic reports whether err is, or wraps, an arithmetic revert.
func IsArithmetic(err any) bool {
	kind, ok := KindOf(err)
	return ok && kind == Arithmetic
}

// KindOf extracts the kind of a revert error.
func KindOf(err any) (Kind, bool) {
	if err == nil {
		return 0, false
	}
	e, ok := err.(error)
	if !ok {
		return 0, false
	}
	var ve *ErrRevert
	if !errors.As(e, &ve) {
		return 0, false
	}
	return ve.kind, true
}
