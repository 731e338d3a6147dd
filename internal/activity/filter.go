package activity

import "time"

// FilterByDate returns the records whose calendar day matches day's.
// A zero day selects every record ("All Days"). The day is compared in
// day's location, ignoring time of day.
func FilterByDate(records []Record, day time.Time) []Record {
	if day.IsZero() {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if SameDay(day, r.Date) {
			out = append(out, r)
		}
	}
	return out
}

// SameDay reports whether t falls on ref's calendar day, evaluated in ref's
// location.
func SameDay(ref, t time.Time) bool {
	y1, m1, d1 := ref.Date()
	y2, m2, d2 := t.In(ref.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// CountByType counts the records of type t.
func CountByType(records []Record, t Type) int {
	n := 0
	for _, r := range records {
		if r.Type == t {
			n++
		}
	}
	return n
}

// TypeCount is one entry of the activity summary.
type TypeCount struct {
	Type         Type         `json:"type"`
	Presentation Presentation `json:"presentation"`
	Count        int          `json:"count"`
}

// Summarize returns one count per known type, in Types order.
func Summarize(records []Record) []TypeCount {
	out := make([]TypeCount, len(Types))
	for i, t := range Types {
		out[i] = TypeCount{Type: t, Presentation: Present(t), Count: CountByType(records, t)}
	}
	return out
}
