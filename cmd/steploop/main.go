package main

import "github.com/joho/godotenv"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	Execute()
}
