package models

// Intake step payloads. Fields are pointers so an omitted field can be told
// apart from a zero value.

type SeverityInput struct {
	Severity *int `json:"severity"`
}

type ProfileInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Age       *int     `json:"age"`
	Sex       *string  `json:"sex"`
}

type HabitsInput struct {
	Duration *int `json:"duration"`
	Drinks   *int `json:"drinks"`
	Waters   *int `json:"waters"`
}

// Missing returns the JSON names of omitted fields.
func (in SeverityInput) Missing() []string {
	return missing(field{"severity", in.Severity == nil})
}

func (in ProfileInput) Missing() []string {
	return missing(
		field{"latitude", in.Latitude == nil},
		field{"longitude", in.Longitude == nil},
		field{"age", in.Age == nil},
		field{"sex", in.Sex == nil},
	)
}

func (in HabitsInput) Missing() []string {
	return missing(
		field{"duration", in.Duration == nil},
		field{"drinks", in.Drinks == nil},
		field{"waters", in.Waters == nil},
	)
}

type field struct {
	name   string
	absent bool
}

func missing(fields ...field) []string {
	var out []string
	for _, f := range fields {
		if f.absent {
			out = append(out, f.name)
		}
	}
	return out
}
