package catalog

import (
	"database/sql"
	"fmt"

	"github.com/kalambet/khet/internal/advisory"
	"github.com/kalambet/khet/internal/dashboard"
)

// --- Advisories ---

// ListAdvisories returns the advisories matching f in seed order.
func (s *Store) ListAdvisories(f advisory.Filter) ([]advisory.Advisory, error) {
	query := `SELECT id, category, priority, title, description, recommended_action, timeframe FROM advisories WHERE 1=1`
	var args []any
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, f.Category)
	}
	if f.Priority != "" {
		query += " AND priority = ?"
		args = append(args, f.Priority)
	}
	query += " ORDER BY position ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []advisory.Advisory
	for rows.Next() {
		a, err := scanAdvisory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAdvisory returns the advisory with the given id.
func (s *Store) GetAdvisory(id string) (advisory.Advisory, error) {
	row := s.db.QueryRow(`SELECT id, category, priority, title, description, recommended_action, timeframe
		FROM advisories WHERE id = ?`, id)
	a, err := scanAdvisory(row)
	if err == sql.ErrNoRows {
		return advisory.Advisory{}, ErrNotFound
	}
	if err != nil {
		return advisory.Advisory{}, err
	}
	return a, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAdvisory(sc scanner) (advisory.Advisory, error) {
	var a advisory.Advisory
	var category, priority string
	if err := sc.Scan(&a.ID, &category, &priority, &a.Title, &a.Description, &a.RecommendedAction, &a.Timeframe); err != nil {
		return advisory.Advisory{}, err
	}
	a.Category = advisory.Category(category)
	a.Priority = advisory.Priority(priority)
	return a, nil
}

// Conditions returns the current farm conditions.
func (s *Store) Conditions() (advisory.Conditions, error) {
	var c advisory.Conditions
	err := s.db.QueryRow(`SELECT temperature, humidity, wind_speed, recommendation FROM conditions WHERE id = 1`).
		Scan(&c.Temperature, &c.Humidity, &c.WindSpeed, &c.Recommendation)
	if err == sql.ErrNoRows {
		return advisory.Conditions{}, ErrNotFound
	}
	return c, err
}

// ListCropHealth returns crop health entries in seed order.
func (s *Store) ListCropHealth() ([]advisory.CropHealth, error) {
	rows, err := s.db.Query(`SELECT crop, health, trend FROM crop_health ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []advisory.CropHealth
	for rows.Next() {
		var c advisory.CropHealth
		if err := rows.Scan(&c.Crop, &c.Health, &c.Trend); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListTips returns the farming tips in seed order.
func (s *Store) ListTips() ([]advisory.Tip, error) {
	rows, err := s.db.Query(`SELECT title, body FROM tips ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []advisory.Tip
	for rows.Next() {
		var t advisory.Tip
		if err := rows.Scan(&t.Title, &t.Text); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// --- Dashboard ---

// CurrentWeather returns the current weather reading.
func (s *Store) CurrentWeather() (dashboard.Weather, error) {
	var w dashboard.Weather
	err := s.db.QueryRow(`SELECT temperature, condition, humidity, wind_speed FROM weather WHERE id = 1`).
		Scan(&w.Temperature, &w.Condition, &w.Humidity, &w.WindSpeed)
	if err == sql.ErrNoRows {
		return dashboard.Weather{}, ErrNotFound
	}
	return w, err
}

// ListForecast returns the short forecast in seed order.
func (s *Store) ListForecast() ([]dashboard.ForecastDay, error) {
	rows, err := s.db.Query(`SELECT day, icon, temperature, condition FROM forecast ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dashboard.ForecastDay
	for rows.Next() {
		var f dashboard.ForecastDay
		if err := rows.Scan(&f.Day, &f.Icon, &f.Temperature, &f.Condition); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ListTasks returns today's tasks in seed order.
func (s *Store) ListTasks() ([]dashboard.Task, error) {
	rows, err := s.db.Query(`SELECT task, priority, completed FROM tasks ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dashboard.Task
	for rows.Next() {
		var t dashboard.Task
		if err := rows.Scan(&t.Task, &t.Priority, &t.Completed); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListQuickStats returns the dashboard headline metrics.
func (s *Store) ListQuickStats() ([]dashboard.QuickStat, error) {
	rows, err := s.db.Query(`SELECT label, value, trend, color FROM quick_stats ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dashboard.QuickStat
	for rows.Next() {
		var q dashboard.QuickStat
		if err := rows.Scan(&q.Label, &q.Value, &q.Trend, &q.Color); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// --- Homepage ---

// ListFeatures returns the homepage feature cards.
func (s *Store) ListFeatures() ([]dashboard.Feature, error) {
	rows, err := s.db.Query(`SELECT title, description, path, icon FROM features ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dashboard.Feature
	for rows.Next() {
		var f dashboard.Feature
		if err := rows.Scan(&f.Title, &f.Description, &f.Path, &f.Icon); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ListHomeStats returns the homepage headline numbers.
func (s *Store) ListHomeStats() ([]dashboard.HomeStat, error) {
	rows, err := s.db.Query(`SELECT label, value, icon FROM home_stats ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying home stats: %w", err)
	}
	defer rows.Close()

	var out []dashboard.HomeStat
	for rows.Next() {
		var h dashboard.HomeStat
		if err := rows.Scan(&h.Label, &h.Value, &h.Icon); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
