package catalog

import (
	"fmt"
	"strings"
)

// RowError describes a single malformed input row.
type RowError struct {
	Line int    // 1-based row number in the input sheet
	Msg  string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Line, e.Msg)
}

// MalformedInputError reports every malformed row found while loading the
// catalog. No partial catalog is produced when any row is malformed.
type MalformedInputError struct {
	Rows []RowError
}

func (e *MalformedInputError) Error() string {
	msgs := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		msgs[i] = r.Error()
	}
	return fmt.Sprintf("malformed catalog input:\n  %s", strings.Join(msgs, "\n  "))
}

// ConstraintConflictError reports a contradictory whitelist declaration found
// during compilation. Fatal before any generation starts.
type ConstraintConflictError struct {
	TraitNumber  int // The whitelisting trait
	TargetNumber int // The whitelist entry that caused the conflict
	Reason       string
}

func (e *ConstraintConflictError) Error() string {
	return fmt.Sprintf("constraint conflict on trait %d (target %d): %s",
		e.TraitNumber, e.TargetNumber, e.Reason)
}
