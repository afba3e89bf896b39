package main

import (
	"os"

	"github.com/aussiebroadwan/casdoor/internal/casdoorctl/app"
)

func main() {
	cfg := app.LoadConfig()

	// cobra has already printed the error
	if err := app.Execute(cfg, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
