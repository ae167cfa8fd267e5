package models

import "errors"

type RecordID string

const (
	SexMale   = "male"
	SexFemale = "female"

	// Unset marks a numeric field the intake steps have not filled in yet.
	Unset = -1
)

var Sexes = []string{SexMale, SexFemale}

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many active sessions")
)

// Record is one entry of the peer population, and also the shape of a
// session's current-user entry while the intake steps fill it in.
type Record struct {
	Severity   int     `json:"severity"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Sex        string  `json:"sex"`
	Age        int     `json:"age"`
	Duration   int     `json:"duration"`
	DrinkCount int     `json:"drinks"`
	WaterCount int     `json:"waters"`
}

func NewUnsetRecord() Record {
	return Record{
		Severity:   Unset,
		Latitude:   Unset,
		Longitude:  Unset,
		Age:        Unset,
		Duration:   Unset,
		DrinkCount: Unset,
		WaterCount: Unset,
	}
}

// RecordPatch carries a partial update; nil fields are left untouched.
type RecordPatch struct {
	Severity   *int
	Latitude   *float64
	Longitude  *float64
	Sex        *string
	Age        *int
	Duration   *int
	DrinkCount *int
	WaterCount *int
}

func (p RecordPatch) Apply(r Record) Record {
	if p.Severity != nil {
		r.Severity = *p.Severity
	}
	if p.Latitude != nil {
		r.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		r.Longitude = *p.Longitude
	}
	if p.Sex != nil {
		r.Sex = *p.Sex
	}
	if p.Age != nil {
		r.Age = *p.Age
	}
	if p.Duration != nil {
		r.Duration = *p.Duration
	}
	if p.DrinkCount != nil {
		r.DrinkCount = *p.DrinkCount
	}
	if p.WaterCount != nil {
		r.WaterCount = *p.WaterCount
	}
	return r
}
