package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Details is the full CV served by GET /cv/{id}. Dates are kept as the
// backend formats them; they are only displayed.
type Details struct {
	ID                 string               `json:"id"`
	FullName           string               `json:"fullName"`
	Position           string               `json:"position,omitempty"`
	DateOfBirth        string               `json:"dateOfBirth,omitempty"`
	Nationality        string               `json:"nationality,omitempty"`
	Email              string               `json:"email,omitempty"`
	Phone              string               `json:"phone,omitempty"`
	Address            string               `json:"address,omitempty"`
	Status             string               `json:"status,omitempty"`
	Education          []Education          `json:"education,omitempty"`
	WorkExperience     []WorkExperience     `json:"workExperience,omitempty"`
	Skills             []string             `json:"skills,omitempty"`
	Certifications     []Certification      `json:"certifications,omitempty"`
	Languages          []Language           `json:"languages,omitempty"`
	MilitaryExperience []MilitaryExperience `json:"militaryExperience,omitempty"`
	Score              float64              `json:"score"`
}

// Education is one education entry of a CV.
type Education struct {
	Degree       string `json:"degree"`
	Institution  string `json:"institution"`
	FieldOfStudy string `json:"fieldOfStudy,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
}

// WorkExperience is one job of a CV.
type WorkExperience struct {
	JobTitle  string `json:"jobTitle"`
	Company   string `json:"company"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// Certification is one certificate of a CV.
type Certification struct {
	Name                string `json:"name"`
	IssuingOrganization string `json:"issuingOrganization,omitempty"`
}

// Language is one spoken language of a CV.
type Language struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency,omitempty"`
}

// MilitaryExperience is one period of service.
type MilitaryExperience struct {
	Rank      string   `json:"rank"`
	Branch    string   `json:"branch,omitempty"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	Duties    []string `json:"duties,omitempty"`
}

// UnmarshalJSON accepts the id as either a JSON string or number.
func (d *Details) UnmarshalJSON(data []byte) error {
	type plain Details
	var w struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decoding CV details: %w", err)
	}
	id, err := decodeID(w.ID)
	if err != nil {
		return err
	}
	*d = Details(w.plain)
	d.ID = id
	return nil
}

// DecodeDetails decodes a single CV. Both a bare object and the backend's
// response envelope ({"message", "status", "data", "timestamp"}) are accepted.
func DecodeDetails(data []byte) (Details, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Details{}, fmt.Errorf("decoding CV details: %w", err)
	}
	body := data
	if raw := bytes.TrimSpace(envelope.Data); len(raw) > 0 {
		if bytes.Equal(raw, []byte("null")) {
			return Details{}, ErrMissingID
		}
		body = raw
	}

	var d Details
	if err := json.Unmarshal(body, &d); err != nil {
		return Details{}, err
	}
	return d, nil
}

// DetailsFromRecord builds the details available from a list row alone.
func DetailsFromRecord(r Record) Details {
	return Details{
		ID:       r.ID,
		FullName: r.Name,
		Position: r.PositionApplied,
		Status:   r.Status,
		Score:    r.Score,
	}
}
