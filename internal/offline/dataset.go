package offline

import (
	"time"
)

// Record is one opaque entry of a category. Its shape depends on the
// category and is never interpreted by the cache.
type Record map[string]any

// ID returns the record's "id" field when it is a string.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Dataset is the persisted snapshot: every category plus the completion
// time of the populate that produced it, in epoch milliseconds.
type Dataset struct {
	Monasteries       []Record `json:"monasteries"`
	Tours             []Record `json:"tours"`
	Maps              []Record `json:"maps"`
	Documents         []Record `json:"documents"`
	EmergencyContacts []Record `json:"emergencyContacts"`
	LastUpdated       int64    `json:"lastUpdated"`
}

// Records returns the records of c. Unknown categories yield nil.
func (d *Dataset) Records(c Category) []Record {
	switch c {
	case Monasteries:
		return d.Monasteries
	case Tours:
		return d.Tours
	case Maps:
		return d.Maps
	case Documents:
		return d.Documents
	case EmergencyContacts:
		return d.EmergencyContacts
	}
	return nil
}

func (d *Dataset) set(c Category, records []Record) {
	switch c {
	case Monasteries:
		d.Monasteries = records
	case Tours:
		d.Tours = records
	case Maps:
		d.Maps = records
	case Documents:
		d.Documents = records
	case EmergencyContacts:
		d.EmergencyContacts = records
	}
}

func (d *Dataset) UpdatedAt() time.Time {
	return time.UnixMilli(d.LastUpdated)
}

// Counts returns the number of records per category.
func (d *Dataset) Counts() map[Category]int {
	out := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		out[c] = len(d.Records(c))
	}
	return out
}

func cloneRecords(in []Record) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = Record(cloneValue(map[string]any(r)).(map[string]any))
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = cloneValue(val)
		}
		return m
	case Record:
		return cloneValue(map[string]any(t))
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = cloneValue(val)
		}
		return s
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
