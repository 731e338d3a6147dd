package activity

import "time"

// Form buffers the fields of a record being composed.
type Form struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Field       string `json:"field"`
	Notes       string `json:"notes"`
}

// Valid reports whether the required fields are filled in.
func (f Form) Valid() bool {
	return !blank(f.Type) && !blank(f.Description) && !blank(f.Field)
}

// Commit adds the composed record, dated date, to s and clears the form.
// An invalid form is left untouched and nothing is added.
func (f *Form) Commit(s *Store, date time.Time) bool {
	if !f.Valid() {
		return false
	}
	ok := s.Add(Record{
		Date:        date,
		Type:        Type(f.Type),
		Description: f.Description,
		Field:       f.Field,
		Notes:       f.Notes,
	})
	if ok {
		*f = Form{}
	}
	return ok
}
