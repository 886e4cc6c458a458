package catalog

import "fmt"

// MalformedEntryError reports a catalog record that failed validation.
// The catalog is not ready until every record validates, so the first
// malformed record aborts the load.
type MalformedEntryError struct {
	Index  int
	Field  string
	Reason string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("catalog entry %d: field %q %s", e.Index, e.Field, e.Reason)
}
