package activity

import "time"

// Type identifies the kind of farming activity a record describes.
type Type string

const (
	Watering    Type = "watering"
	Planting    Type = "planting"
	Harvesting  Type = "harvesting"
	Fertilizing Type = "fertilizing"
	PestControl Type = "pest-control"
)

// Types lists the known activity types in display order.
var Types = []Type{Watering, Planting, Harvesting, Fertilizing, PestControl}

// Record is a single logged farming activity.
type Record struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Type        Type      `json:"type"`
	Description string    `json:"description"`
	Field       string    `json:"field"`
	Notes       string    `json:"notes,omitempty"`
}

// Presentation describes how an activity type is rendered.
type Presentation struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var presentations = map[Type]Presentation{
	Watering:    {Label: "Watering", Icon: "droplets", Color: "text-blue-600"},
	Planting:    {Label: "Planting", Icon: "sprout", Color: "text-green-600"},
	Harvesting:  {Label: "Harvesting", Icon: "scissors", Color: "text-orange-600"},
	Fertilizing: {Label: "Fertilizing", Icon: "beaker", Color: "text-purple-600"},
	PestControl: {Label: "Pest Control", Icon: "bug", Color: "text-red-600"},
}

// Present returns the presentation for t. Unknown types get the sprout icon,
// a neutral color, and their raw value as label.
func Present(t Type) Presentation {
	if p, ok := presentations[t]; ok {
		return p
	}
	return Presentation{Label: string(t), Icon: "sprout", Color: "text-gray-600"}
}

// Known reports whether t is one of the enumerated types.
func (t Type) Known() bool {
	_, ok := presentations[t]
	return ok
}
