package advisory

import "fmt"

// Source provides the seeded advisory content.
// Implemented by catalog.Store.
type Source interface {
	ListAdvisories(f Filter) ([]Advisory, error)
	Conditions() (Conditions, error)
	ListCropHealth() ([]CropHealth, error)
	ListTips() ([]Tip, error)
}

// Item is an advisory together with its presentation.
type Item struct {
	Advisory
	Badge  Badge  `json:"badge"`
	Marker Marker `json:"marker"`
}

// CropStatus is a crop health entry with its derived band.
type CropStatus struct {
	CropHealth
	Status Status `json:"status"`
}

// Board is everything the advisory view shows.
type Board struct {
	Conditions Conditions   `json:"conditions"`
	Advisories []Item       `json:"advisories"`
	Active     int          `json:"active"`
	CropHealth []CropStatus `json:"crop_health"`
	Tips       []Tip        `json:"tips"`
}

// BuildBoard assembles the advisory view from src.
func BuildBoard(src Source, f Filter) (Board, error) {
	conditions, err := src.Conditions()
	if err != nil {
		return Board{}, fmt.Errorf("loading conditions: %w", err)
	}
	advisories, err := src.ListAdvisories(f)
	if err != nil {
		return Board{}, fmt.Errorf("listing advisories: %w", err)
	}
	crops, err := src.ListCropHealth()
	if err != nil {
		return Board{}, fmt.Errorf("listing crop health: %w", err)
	}
	tips, err := src.ListTips()
	if err != nil {
		return Board{}, fmt.Errorf("listing tips: %w", err)
	}

	b := Board{
		Conditions: conditions,
		Advisories: make([]Item, len(advisories)),
		Active:     len(advisories),
		CropHealth: make([]CropStatus, len(crops)),
		Tips:       tips,
	}
	for i, a := range advisories {
		b.Advisories[i] = Present(a)
	}
	for i, c := range crops {
		b.CropHealth[i] = CropStatus{CropHealth: c, Status: StatusFor(c.Health)}
	}
	return b, nil
}

// Present attaches presentation to a.
func Present(a Advisory) Item {
	return Item{Advisory: a, Badge: BadgeFor(a.Priority), Marker: MarkerFor(a.Category)}
}
