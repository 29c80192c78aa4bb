// Package record retrieves loosely-typed source records from the remote
// record store. The core treats a record as an arbitrary nested document;
// keys may be absent or of unexpected shape and that is routine.
package record

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Record is a semi-structured source record: nested maps, sequences, and
// scalars as decoded from JSON.
type Record map[string]any

// Decode parses a JSON document into a Record.
func Decode(data []byte) (Record, error) {
	var rec Record

	err := json.Unmarshal(data, &rec)
	if err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}

	return rec, nil
}

// String extracts a top-level string field, returning "" when the key is
// absent or not a string. Callers use it to pull identity hints
// (tenant/program attribution) off a record without shape assumptions.
func (r Record) String(key string) string {
	s, _ := r[key].(string)

	return s
}
