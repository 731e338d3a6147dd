package activity

import "time"

// Seed returns the sample records shown on a fresh activity log: one for
// now, one a day earlier and one two days earlier.
func Seed(now time.Time) []Record {
	return []Record{
		{
			ID:          "1",
			Date:        now,
			Type:        Watering,
			Description: "Watered tomato field",
			Field:       "Field A",
			Notes:       "Used drip irrigation system",
		},
		{
			ID:          "2",
			Date:        now.Add(-24 * time.Hour),
			Type:        Harvesting,
			Description: "Harvested 200kg tomatoes",
			Field:       "Field B",
			Notes:       "Good quality harvest",
		},
		{
			ID:          "3",
			Date:        now.Add(-48 * time.Hour),
			Type:        Planting,
			Description: "Planted new corn seeds",
			Field:       "Field C",
			Notes:       "Used hybrid variety seeds",
		},
	}
}
