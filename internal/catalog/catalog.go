// Package catalog holds the read-only seeded content (advisories, weather,
// crop health, tasks, homepage copy) in an in-memory SQLite database.
// Nothing is written to disk; every Open starts from the embedded seed.
package catalog

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/kalambet/khet/internal/advisory"
	"github.com/kalambet/khet/internal/dashboard"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

//go:embed seed.yaml
var seedYAML []byte

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps the in-memory catalog database.
type Store struct {
	db *sql.DB
}

// Seed is the shape of the embedded seed fixture.
type Seed struct {
	Advisories []advisory.Advisory     `yaml:"advisories"`
	Conditions advisory.Conditions     `yaml:"conditions"`
	CropHealth []advisory.CropHealth   `yaml:"crop_health"`
	Tips       []advisory.Tip          `yaml:"tips"`
	Weather    dashboard.Weather       `yaml:"weather"`
	Forecast   []dashboard.ForecastDay `yaml:"forecast"`
	Tasks      []dashboard.Task        `yaml:"tasks"`
	QuickStats []dashboard.QuickStat   `yaml:"quick_stats"`
	Features   []dashboard.Feature     `yaml:"features"`
	HomeStats  []dashboard.HomeStat    `yaml:"home_stats"`
}

// Open creates the in-memory catalog, applies migrations and loads the
// embedded seed.
func Open() (*Store, error) {
	seed, err := ParseSeed(seedYAML)
	if err != nil {
		return nil, err
	}
	return OpenWithSeed(seed)
}

// OpenWithSeed is Open with a caller-supplied seed.
func OpenWithSeed(seed Seed) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	if err := s.load(seed); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading seed: %w", err)
	}
	return s, nil
}

// ParseSeed decodes a seed fixture.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parsing seed: %w", err)
	}
	return seed, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies the embedded SQL migrations in filename order.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}
	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// AppliedMigrations returns the applied migration versions in ascending order.
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// load inserts seed in a single transaction.
func (s *Store) load(seed Seed) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	exec := func(query string, args ...any) error {
		_, err := tx.Exec(query, args...)
		return err
	}

	for i, a := range seed.Advisories {
		if err := exec(`INSERT INTO advisories (id, position, category, priority, title, description, recommended_action, timeframe)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, i, a.Category, a.Priority, a.Title, a.Description, a.RecommendedAction, a.Timeframe); err != nil {
			return fmt.Errorf("inserting advisory %s: %w", a.ID, err)
		}
	}
	c := seed.Conditions
	if err := exec(`INSERT INTO conditions (id, temperature, humidity, wind_speed, recommendation) VALUES (1, ?, ?, ?, ?)`,
		c.Temperature, c.Humidity, c.WindSpeed, c.Recommendation); err != nil {
		return fmt.Errorf("inserting conditions: %w", err)
	}
	for i, ch := range seed.CropHealth {
		if err := exec(`INSERT INTO crop_health (position, crop, health, trend) VALUES (?, ?, ?, ?)`,
			i, ch.Crop, ch.Health, ch.Trend); err != nil {
			return fmt.Errorf("inserting crop health %q: %w", ch.Crop, err)
		}
	}
	for i, t := range seed.Tips {
		if err := exec(`INSERT INTO tips (position, title, body) VALUES (?, ?, ?)`, i, t.Title, t.Text); err != nil {
			return fmt.Errorf("inserting tip %q: %w", t.Title, err)
		}
	}
	w := seed.Weather
	if err := exec(`INSERT INTO weather (id, temperature, condition, humidity, wind_speed) VALUES (1, ?, ?, ?, ?)`,
		w.Temperature, w.Condition, w.Humidity, w.WindSpeed); err != nil {
		return fmt.Errorf("inserting weather: %w", err)
	}
	for i, f := range seed.Forecast {
		if err := exec(`INSERT INTO forecast (position, day, icon, temperature, condition) VALUES (?, ?, ?, ?, ?)`,
			i, f.Day, f.Icon, f.Temperature, f.Condition); err != nil {
			return fmt.Errorf("inserting forecast %q: %w", f.Day, err)
		}
	}
	for i, t := range seed.Tasks {
		if err := exec(`INSERT INTO tasks (position, task, priority, completed) VALUES (?, ?, ?, ?)`,
			i, t.Task, t.Priority, t.Completed); err != nil {
			return fmt.Errorf("inserting task %q: %w", t.Task, err)
		}
	}
	for i, q := range seed.QuickStats {
		if err := exec(`INSERT INTO quick_stats (position, label, value, trend, color) VALUES (?, ?, ?, ?, ?)`,
			i, q.Label, q.Value, q.Trend, q.Color); err != nil {
			return fmt.Errorf("inserting quick stat %q: %w", q.Label, err)
		}
	}
	for i, f := range seed.Features {
		if err := exec(`INSERT INTO features (position, title, description, path, icon) VALUES (?, ?, ?, ?, ?)`,
			i, f.Title, f.Description, f.Path, f.Icon); err != nil {
			return fmt.Errorf("inserting feature %q: %w", f.Title, err)
		}
	}
	for i, h := range seed.HomeStats {
		if err := exec(`INSERT INTO home_stats (position, label, value, icon) VALUES (?, ?, ?, ?)`,
			i, h.Label, h.Value, h.Icon); err != nil {
			return fmt.Errorf("inserting home stat %q: %w", h.Label, err)
		}
	}

	return tx.Commit()
}
