package config

import "github.com/joho/godotenv"

// loadDotenv loads .env (and the dotless "env" variant) if present.
// Missing files are fine; real environment variables win.
func loadDotenv() {
	_ = godotenv.Load()
	_ = godotenv.Load("env")
}
