package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateOnlyLayout is accepted for date_received in addition to RFC3339.
const dateOnlyLayout = "2006-01-02"

// ErrMissingID is returned when a decoded record has no identifier.
var ErrMissingID = errors.New("record id is required")

// Record is one CV row as listed by the recruitment backend.
// Identity is by ID; the remaining attributes are display and sort data.
type Record struct {
	ID              string
	Name            string
	PositionApplied string
	Score           float64
	Status          string
	DateReceived    time.Time
}

// wireRecord mirrors the JSON shape served by GET /cv.
type wireRecord struct {
	ID              json.RawMessage `json:"id"`
	Name            string          `json:"name"`
	PositionApplied string          `json:"position_applied"`
	Score           float64         `json:"score"`
	Status          string          `json:"status"`
	DateReceived    string          `json:"date_received,omitempty"`
}

// UnmarshalJSON accepts the id as either a JSON string or number and
// date_received as RFC3339 or YYYY-MM-DD.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}

	id, err := decodeID(w.ID)
	if err != nil {
		return err
	}

	received, err := parseDate(w.DateReceived)
	if err != nil {
		return fmt.Errorf("record %s: %w", id, err)
	}

	*r = Record{
		ID:              id,
		Name:            w.Name,
		PositionApplied: w.PositionApplied,
		Score:           w.Score,
		Status:          w.Status,
		DateReceived:    received,
	}
	return nil
}

// MarshalJSON writes the record in the same shape the backend serves.
func (r Record) MarshalJSON() ([]byte, error) {
	w := struct {
		ID              string  `json:"id"`
		Name            string  `json:"name"`
		PositionApplied string  `json:"position_applied"`
		Score           float64 `json:"score"`
		Status          string  `json:"status"`
		DateReceived    string  `json:"date_received,omitempty"`
	}{
		ID:              r.ID,
		Name:            r.Name,
		PositionApplied: r.PositionApplied,
		Score:           r.Score,
		Status:          r.Status,
	}
	if !r.DateReceived.IsZero() {
		w.DateReceived = r.DateReceived.Format(time.RFC3339)
	}
	return json.Marshal(w)
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", ErrMissingID
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decoding record id: %w", err)
		}
		if strings.TrimSpace(s) == "" {
			return "", ErrMissingID
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("decoding record id: %w", err)
	}
	return n.String(), nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateOnlyLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date_received %q: want RFC3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

// DecodeList decodes a JSON array of records.
// A JSON null decodes to an empty list.
func DecodeList(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// numericID returns the id as a number when it parses as one. Ids are
// compared as float64, so integers beyond 2^53 that round to the same value
// compare equal and keep their input order under a stable sort.
func (r Record) numericID() (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(r.ID), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
