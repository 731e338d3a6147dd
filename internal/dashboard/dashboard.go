package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/kalambet/khet/internal/activity"
)

// Source provides the seeded dashboard content.
// Implemented by catalog.Store.
type Source interface {
	CurrentWeather() (Weather, error)
	ListForecast() ([]ForecastDay, error)
	ListTasks() ([]Task, error)
	ListQuickStats() ([]QuickStat, error)
}

// recentLimit caps the recent activity panel.
const recentLimit = 3

// RecentActivity is a record as shown on the dashboard.
type RecentActivity struct {
	Day         string        `json:"day"`
	Description string        `json:"description"`
	Field       string        `json:"field"`
	Type        activity.Type `json:"type"`
	Icon        string        `json:"icon"`
}

// Tasks is the task panel with its completion tally.
type Tasks struct {
	Items     []Task `json:"items"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// Dashboard is everything the dashboard view shows.
type Dashboard struct {
	Greeting   string           `json:"greeting"`
	QuickStats []QuickStat      `json:"quick_stats"`
	Weather    Weather          `json:"weather"`
	Forecast   []ForecastDay    `json:"forecast"`
	Tasks      Tasks            `json:"tasks"`
	Recent     []RecentActivity `json:"recent_activities"`
}

// Build assembles the dashboard at now. records should be newest first; only
// the first few are shown.
func Build(src Source, now time.Time, records []activity.Record) (Dashboard, error) {
	weather, err := src.CurrentWeather()
	if err != nil {
		return Dashboard{}, fmt.Errorf("loading weather: %w", err)
	}
	forecast, err := src.ListForecast()
	if err != nil {
		return Dashboard{}, fmt.Errorf("loading forecast: %w", err)
	}
	tasks, err := src.ListTasks()
	if err != nil {
		return Dashboard{}, fmt.Errorf("loading tasks: %w", err)
	}
	stats, err := src.ListQuickStats()
	if err != nil {
		return Dashboard{}, fmt.Errorf("loading quick stats: %w", err)
	}

	d := Dashboard{
		Greeting:   Greeting(now),
		QuickStats: stats,
		Weather:    weather,
		Forecast:   forecast,
		Tasks:      Tasks{Items: tasks, Total: len(tasks)},
	}
	for _, t := range tasks {
		if t.Completed {
			d.Tasks.Completed++
		}
	}

	if len(records) > recentLimit {
		records = records[:recentLimit]
	}
	d.Recent = make([]RecentActivity, len(records))
	for i, r := range records {
		d.Recent[i] = RecentActivity{
			Day:         RelativeDay(now, r.Date),
			Description: r.Description,
			Field:       r.Field,
			Type:        r.Type,
			Icon:        activity.Present(r.Type).Icon,
		}
	}
	return d, nil
}

// Greeting picks a salutation for the hour of now.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good Morning, Farmer!"
	case h < 17:
		return "Good Afternoon, Farmer!"
	default:
		return "Good Evening, Farmer!"
	}
}

// RelativeDay labels t relative to now's calendar day: "Today",
// "Yesterday", "N days ago", or the date itself for future days.
func RelativeDay(now, t time.Time) string {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	ty, tm, td := t.In(now.Location()).Date()
	day := time.Date(ty, tm, td, 0, 0, 0, 0, now.Location())

	days := int(math.Round(today.Sub(day).Hours() / 24))
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days > 1:
		return fmt.Sprintf("%d days ago", days)
	default:
		return day.Format("Jan 2, 2006")
	}
}
