package domain

import (
	"bytes"
	"encoding/json"
)

// SpecSection models the schema-less technical blocks that appear ad hoc on
// products. A section is either a flat key/value table or a list of rows
// (each row its own key/value map). The shape is decided once at decode time
// instead of being re-inspected at every render.
type SpecSection struct {
	Table map[string]any
	Rows  []map[string]any
}

func (s *SpecSection) IsRows() bool { return s != nil && s.Rows != nil }

func (s *SpecSection) UnmarshalJSON(b []byte) error {
	t := bytes.TrimSpace(b)
	if len(t) > 0 && t[0] == '[' {
		s.Table = nil
		return json.Unmarshal(t, &s.Rows)
	}
	s.Rows = nil
	return json.Unmarshal(t, &s.Table)
}

func (s SpecSection) MarshalJSON() ([]byte, error) {
	if s.Rows != nil {
		return json.Marshal(s.Rows)
	}
	return json.Marshal(s.Table)
}
