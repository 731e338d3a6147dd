package dashboard

import "fmt"

// HomeSource provides the seeded homepage content.
type HomeSource interface {
	ListFeatures() ([]Feature, error)
	ListHomeStats() ([]HomeStat, error)
}

// Home is the landing page.
type Home struct {
	Title    string     `json:"title"`
	Tagline  string     `json:"tagline"`
	Features []Feature  `json:"features"`
	Stats    []HomeStat `json:"stats"`
}

// BuildHome assembles the homepage from src.
func BuildHome(src HomeSource) (Home, error) {
	features, err := src.ListFeatures()
	if err != nil {
		return Home{}, fmt.Errorf("loading features: %w", err)
	}
	stats, err := src.ListHomeStats()
	if err != nil {
		return Home{}, fmt.Errorf("loading home stats: %w", err)
	}
	return Home{
		Title:    "Digital Khet Sahay",
		Tagline:  "Your smart farming companion for crops, weather and advice",
		Features: features,
		Stats:    stats,
	}, nil
}
