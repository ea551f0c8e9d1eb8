package configuration

import (
	"os"

	"github.com/joho/godotenv"

	"nxt-watch/infrastructure/logger"
)

// LoadEnvFromFile loads KEY=VALUE pairs from the given files (e.g. config.env, .env)
// when they exist. Variables already present in the environment are not overridden.
// It returns the files that were loaded.
func LoadEnvFromFile(paths ...string) []string {
	loaded := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{"file": p, "error": err}).Warn("Failed to load env file")
			continue
		}
		loaded = append(loaded, p)
	}
	return loaded
}
