package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"dirview/internal/history"
)

// History is the persisted directory history, least recent first. It is
// stored as a JSON object whose key order carries the recency.
type History []history.Entry

// MarshalJSON writes the entries as an object in slice order.
func (h History) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range h {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Dir)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.File)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping its key order. null yields no entries.
func (h *History) UnmarshalJSON(data []byte) error {
	*h = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("history must be an object, got %v", tok)
	}

	var entries History
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		dir, ok := tok.(string)
		if !ok {
			return fmt.Errorf("history key must be a string, got %v", tok)
		}
		var file string
		if err := dec.Decode(&file); err != nil {
			return fmt.Errorf("history entry %q: %w", dir, err)
		}
		entries = append(entries, history.Entry{Dir: dir, File: file})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*h = entries
	return nil
}
