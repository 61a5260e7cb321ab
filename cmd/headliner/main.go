package main

import (
	"headliner/cmd/handlers"
	"headliner/internal/logger"
)

func main() {
	logger.Init() // Initialize the logger
	handlers.Execute()
}
