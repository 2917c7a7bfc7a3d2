package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Project represents one entry of the project directory served by /api/projects
type Project struct {
	Folder       string `json:"folder"`
	Name         string `json:"name"`
	SessionCount int    `json:"sessions"`
}

// ModelCount is a single model-name → count pair.
type ModelCount struct {
	Name  string
	Count float64
}

// ModelCounts keeps the key order of the JSON object it was decoded from.
// Ordering matters: the session table sorts the "models" column by the
// comma-joined names in insertion order.
type ModelCounts []ModelCount

// UnmarshalJSON decodes a JSON object while preserving key order.
func (m *ModelCounts) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("models: expected object, got %v", tok)
	}

	out := ModelCounts{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("models: expected string key, got %v", keyTok)
		}
		var count float64
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("models: count for %q: %w", key, err)
		}
		out = append(out, ModelCount{Name: key, Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = out
	return nil
}

// MarshalJSON encodes the pairs back into an object, keeping order.
func (m ModelCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, mc := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(mc.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(mc.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Names returns the model names in insertion order.
func (m ModelCounts) Names() []string {
	names := make([]string, len(m))
	for i, mc := range m {
		names[i] = mc.Name
	}
	return names
}

// SessionRecord is one row of sessions_list
type SessionRecord struct {
	Date              string      `json:"date"`
	Project           string      `json:"project"`
	ProjectFolder     string      `json:"project_folder,omitempty"`
	Title             string      `json:"title"`
	SessionID         string      `json:"session_id"`
	Models            ModelCounts `json:"models"`
	APICalls          *float64    `json:"api_calls"`
	InputTokens       *float64    `json:"input_tokens"`
	OutputTokens      *float64    `json:"output_tokens"`
	CacheReadTokens   *float64    `json:"cache_read_tokens"`
	CacheCreateTokens *float64    `json:"cache_create_tokens"`
	Cost              *float64    `json:"cost"`
}

// StatsSnapshot is the full /api/stats response. It is replaced wholesale on
// every successful fetch.
type StatsSnapshot struct {
	APICalls     *float64        `json:"api_calls"`
	Sessions     *float64        `json:"sessions"`
	InputTokens  *float64        `json:"input_tokens"`
	OutputTokens *float64        `json:"output_tokens"`
	Cost         *float64        `json:"cost"`
	ModelCounts  ModelCounts     `json:"models"`
	SessionsList []SessionRecord `json:"sessions_list"`
}

// Float returns a pointer to v. Handy for building snapshots in code.
func Float(v float64) *float64 {
	return &v
}
