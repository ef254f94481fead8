package fingerprint

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Record is the persisted fingerprint manifest of one build: a mapping
// from object name to content digest, plus the package version in effect
// when the record was captured. Serialized as YAML so that successive
// records diff cleanly in review.
type Record struct {
	Version string            `yaml:"version"`
	Objects map[string]string `yaml:"objects"`
}

// ToYAML serializes the record. yaml.v3 emits map keys in sorted order,
// which together with the fixed field order keeps successive records
// diff-friendly and the round trip exact.
func (r *Record) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal fingerprint record: %w", err)
	}
	return data, nil
}

// FromYAML deserializes a record from YAML.
func FromYAML(data []byte) (*Record, error) {
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal fingerprint record: %w", err)
	}
	if rec.Objects == nil {
		rec.Objects = make(map[string]string)
	}
	return &rec, nil
}
