package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// readDotenv parses path without touching the process environment.
// A missing file yields no entries.
func readDotenv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return vals, nil
}

// envLookup prefers the real environment and falls back to dotenv.
func envLookup(dotenv map[string]string) func(string) string {
	return func(name string) string {
		if v := os.Getenv(name); v != "" {
			return v
		}
		return dotenv[name]
	}
}
