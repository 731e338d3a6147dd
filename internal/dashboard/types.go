// Package dashboard projects seeded content and activity records into the
// dashboard and homepage views.
package dashboard

// Weather is the current reading shown on the dashboard.
type Weather struct {
	Temperature string `json:"temperature" yaml:"temperature"`
	Condition   string `json:"condition" yaml:"condition"`
	Humidity    string `json:"humidity" yaml:"humidity"`
	WindSpeed   string `json:"wind_speed" yaml:"wind_speed"`
}

// ForecastDay is one day of the short forecast.
type ForecastDay struct {
	Day         string `json:"day" yaml:"day"`
	Icon        string `json:"icon" yaml:"icon"`
	Temperature string `json:"temperature" yaml:"temperature"`
	Condition   string `json:"condition" yaml:"condition"`
}

// Task is one of today's farm tasks.
type Task struct {
	Task      string `json:"task" yaml:"task"`
	Priority  string `json:"priority" yaml:"priority"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// QuickStat is a headline metric on the dashboard.
type QuickStat struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
	Trend string `json:"trend" yaml:"trend"`
	Color string `json:"color" yaml:"color"`
}

// Feature is a homepage card linking to a view.
type Feature struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Path        string `json:"path" yaml:"path"`
	Icon        string `json:"icon" yaml:"icon"`
}

// HomeStat is a homepage headline number.
type HomeStat struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
	Icon  string `json:"icon" yaml:"icon"`
}
