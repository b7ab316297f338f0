package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads files in order, by default .env.local, .env.<APP_ENV>, .env.
// godotenv.Load never overwrites variables that are already set, so the
// process environment wins over the first file, which wins over later ones.
// Returns the files actually loaded.
func LoadDotEnv(files ...string) []string {
	if len(files) == 0 {
		files = []string{".env.local", ".env." + appEnv(), ".env"}
	}
	var loaded []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}

// ConfigPath returns configs/config.<APP_ENV>.yaml, defaulting APP_ENV to local
func ConfigPath() string {
	return "configs/config." + appEnv() + ".yaml"
}

func appEnv() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "local"
}
