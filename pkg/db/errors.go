package db

import "strings"

// IsUniqueViolation reports whether the provided error references a Postgres
// unique violation constraint. When constraintName is provided, the helper looks
// for the constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value")
}

// IsMissingColumn reports whether the error indicates that the named column
// does not exist on the target table. Older deployments run a tracking table
// without the optional label and occurred_at columns. Postgres phrases this
// as `column "x" ... does not exist`, sqlite as `table ... has no column
// named x`.
func IsMissingColumn(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, strings.ToLower(column)) {
		return false
	}
	return (strings.Contains(msg, "column") && strings.Contains(msg, "does not exist")) ||
		strings.Contains(msg, "has no column")
}
