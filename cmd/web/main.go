package main

import (
	"roomvote_backend/internal/app"

	"github.com/joho/godotenv"
)

func main() {
	// .env опционален: в проде переменные приходят из окружения
	_ = godotenv.Load()

	app.Run()
}
