package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads a JSON array of records from path and builds the
// catalog. Any read, decode, or validation failure aborts the load.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var recs []Record
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return New(recs)
}

// Default returns the built-in demo catalog used when no catalog file
// is configured.
func Default() *Catalog {
	c, err := New([]Record{
		{ID: "1", Name: "Monkey", Price: "4.99", Stock: 5},
		{ID: "2", Name: "Canary", Price: "6.99", Stock: 3},
		{ID: "3", Name: "Gorilla", Price: "12.50", Stock: 2},
	})
	if err != nil {
		panic(err)
	}
	return c
}
