package advisory

// Badge describes how a priority is rendered.
type Badge struct {
	Variant string `json:"variant"`
	Icon    string `json:"icon"`
}

// Marker describes how a category is rendered.
type Marker struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var badges = map[Priority]Badge{
	Urgent: {Variant: "destructive", Icon: "alert-triangle"},
	High:   {Variant: "default", Icon: "clock"},
	Medium: {Variant: "secondary", Icon: "lightbulb"},
	Low:    {Variant: "outline", Icon: "check-circle"},
}

var defaultBadge = Badge{Variant: "secondary", Icon: "lightbulb"}

var markers = map[Category]Marker{
	Weather:   {Icon: "droplets", Color: "text-blue-600"},
	Pest:      {Icon: "bug", Color: "text-red-600"},
	Nutrition: {Icon: "leaf", Color: "text-green-600"},
	Market:    {Icon: "trending-up", Color: "text-yellow-600"},
}

var defaultMarker = Marker{Icon: "lightbulb", Color: "text-gray-600"}

// BadgeFor returns the badge for p, falling back to the medium style.
func BadgeFor(p Priority) Badge {
	if b, ok := badges[p]; ok {
		return b
	}
	return defaultBadge
}

// MarkerFor returns the marker for c.
func MarkerFor(c Category) Marker {
	if m, ok := markers[c]; ok {
		return m
	}
	return defaultMarker
}

// Status names a crop health band.
type Status string

const (
	Excellent      Status = "Excellent"
	Good           Status = "Good"
	NeedsAttention Status = "Needs Attention"
)

// StatusFor classifies a 0-100 health score.
func StatusFor(health int) Status {
	switch {
	case health >= 90:
		return Excellent
	case health >= 75:
		return Good
	default:
		return NeedsAttention
	}
}
