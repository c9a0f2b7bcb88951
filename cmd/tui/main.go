package main

import (
	"flag"
	"fmt"
	"os"

	"item-tracker/internal/client"
	"item-tracker/internal/config"
	"item-tracker/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	defaultURL := os.Getenv("API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:5000/api"
	}
	apiURL := flag.String("api", defaultURL, "base URL of the item API")
	flag.Parse()

	c := client.New(*apiURL, nil)
	if _, err := tea.NewProgram(tui.New(c), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		os.Exit(1)
	}
}
