package main

import (
	// Autoloads .env file to supply environment variables
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	Execute()
}
