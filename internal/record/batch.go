package record

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseBatch 解析 YAML（或 JSON）记录列表
// ParseBatch decodes a YAML (or JSON, which YAML accepts) list of records.
// Each record is normalized and validated; the first bad entry fails the batch.
func ParseBatch(data []byte) ([]Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw []Record
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse records: %w", err)
	}
	out := make([]Record, 0, len(raw))
	for i, r := range raw {
		r = Normalize(r)
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func LoadBatch(path string) ([]Record, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("batch path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch %q: %w", path, err)
	}
	return ParseBatch(data)
}
