// Package types provides core data types for the shift relocation engine.
// It defines the closed conflict-policy and operation-type variants shared
// by the resolver, the mover, the journal, and the batch drivers.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// Policy selects how a destination conflict is handled.
type Policy string

const (
	// PolicySkip leaves the existing destination alone and writes nothing.
	PolicySkip Policy = "skip"
	// PolicyOverwrite replaces the existing destination content.
	PolicyOverwrite Policy = "overwrite"
	// PolicyCopy writes to a uniquely suffixed sibling path.
	PolicyCopy Policy = "copy"
	// PolicyMerge unions directory content; valid for directories only.
	PolicyMerge Policy = "merge"
)

// DefaultPolicy is applied when no policy is selected.
const DefaultPolicy = PolicyCopy

// Policies lists all valid policies with their descriptions.
var Policies = map[Policy]string{
	PolicySkip:      "skip conflicting items",
	PolicyOverwrite: "overwrite existing items",
	PolicyCopy:      "create a uniquely suffixed copy",
	PolicyMerge:     "merge directory contents",
}

// ParsePolicy parses a policy string. Unrecognized and empty values resolve
// to PolicyCopy here, at the boundary; the resolver never re-interprets raw
// strings.
func ParsePolicy(s string) Policy {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicySkip:
		return PolicySkip
	case PolicyOverwrite:
		return PolicyOverwrite
	case PolicyCopy:
		return PolicyCopy
	case PolicyMerge:
		return PolicyMerge
	default:
		return DefaultPolicy
	}
}

// Operation represents the kind of a batch operation.
type Operation string

const (
	// OpCopy duplicates items, leaving sources untouched.
	OpCopy Operation = "copy"
	// OpCut moves items, removing them from the source location.
	OpCut Operation = "cut"
	// OpRename moves items between absolute paths.
	OpRename Operation = "rename"
)

// Destructive reports whether the operation removes the original item and
// therefore requires a backup before mutating the filesystem.
func (o Operation) Destructive() bool {
	return o == OpCut || o == OpRename
}

// ErrUnknownOperation indicates an operation string not in the closed set.
var ErrUnknownOperation = errors.New("unknown operation type")

// ParseOperation parses an operation string.
func ParseOperation(s string) (Operation, error) {
	switch Operation(strings.ToLower(strings.TrimSpace(s))) {
	case OpCopy:
		return OpCopy, nil
	case OpCut:
		return OpCut, nil
	case OpRename:
		return OpRename, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, s)
	}
}

// TransferOp returns OpCut when cut is set and OpCopy otherwise. The search
// and extract drivers expose a cut/copy toggle rather than a raw operation.
func TransferOp(cut bool) Operation {
	if cut {
		return OpCut
	}
	return OpCopy
}
