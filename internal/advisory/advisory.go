// Package advisory models the read-only recommendation feed and the farm
// condition panels shown alongside it.
package advisory

// Category groups advisories by subject.
type Category string

const (
	Weather   Category = "weather"
	Pest      Category = "pest"
	Nutrition Category = "nutrition"
	Market    Category = "market"
)

// Priority orders advisories by urgency.
type Priority string

const (
	Urgent Priority = "urgent"
	High   Priority = "high"
	Medium Priority = "medium"
	Low    Priority = "low"
)

// Advisory is a seeded recommendation. It is never mutated.
type Advisory struct {
	ID                string   `json:"id" yaml:"id"`
	Category          Category `json:"category" yaml:"category"`
	Priority          Priority `json:"priority" yaml:"priority"`
	Title             string   `json:"title" yaml:"title"`
	Description       string   `json:"description" yaml:"description"`
	RecommendedAction string   `json:"recommended_action" yaml:"recommended_action"`
	Timeframe         string   `json:"timeframe" yaml:"timeframe"`
}

// Conditions summarises current weather for the advisory page.
type Conditions struct {
	Temperature    string `json:"temperature" yaml:"temperature"`
	Humidity       string `json:"humidity" yaml:"humidity"`
	WindSpeed      string `json:"wind_speed" yaml:"wind_speed"`
	Recommendation string `json:"recommendation" yaml:"recommendation"`
}

// CropHealth is the health score of one crop, 0-100.
type CropHealth struct {
	Crop   string `json:"crop" yaml:"crop"`
	Health int    `json:"health" yaml:"health"`
	Trend  string `json:"trend" yaml:"trend"`
}

// Tip is a short farming tip.
type Tip struct {
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
}

// Filter narrows an advisory listing. Empty fields match everything.
type Filter struct {
	Category Category
	Priority Priority
}
