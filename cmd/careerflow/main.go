package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; the environment and flags still apply.
	_ = godotenv.Load()
	Execute()
}
