package record

import "fmt"

// NotFoundError is returned when a lookup resolves an identifier with no
// corresponding record, including the undefined identifier produced by an
// out-of-range positional access.
type NotFoundError struct {
	Table string
	ID    ID
}

func (e NotFoundError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("record %v not found", e.ID)
	}
	return fmt.Sprintf("%s record %v not found", e.Table, e.ID)
}

// UnknownTableError is returned when a session is asked for a table the
// state does not declare.
type UnknownTableError struct {
	Table string
}

func (e UnknownTableError) Error() string {
	return fmt.Sprintf("unknown table %q", e.Table)
}
