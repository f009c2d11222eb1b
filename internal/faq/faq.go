// Package faq holds the static topic/reply knowledge base consulted
// before any completions call is made.
package faq

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

//go:embed faq.json
var embedded embed.FS

// Entry pairs a question topic with its canned reply.
type Entry struct {
	Topic string `json:"topic"`
	Reply string `json:"reply"`
}

// Table is an ordered, read-only list of entries. Order matters:
// the first matching entry wins.
type Table struct {
	entries []Entry
}

func NewTable(entries []Entry) *Table {
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	return &Table{entries: copied}
}

// Default loads the knowledge base compiled into the binary.
func Default() (*Table, error) {
	data, err := embedded.ReadFile("faq.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded faq: %w", err)
	}
	return parse(data)
}

// LoadFile reads a knowledge base from disk, for deployments that
// override the built-in one.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read faq file %q: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Table, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse faq entries: %w", err)
	}
	return &Table{entries: entries}, nil
}

// Match scans the table in order and returns the reply of the first
// entry whose topic, case-folded, is contained in the given text.
// Matching is pure and never touches the network.
func (t *Table) Match(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, entry := range t.entries {
		if strings.Contains(lowered, strings.ToLower(entry.Topic)) {
			return entry.Reply, true
		}
	}
	return "", false
}

// Len reports the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}
