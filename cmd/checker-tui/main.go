package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/1shammah/symptom-checker/internal/tui"
)

func main() {
	_ = godotenv.Load()

	apiURL := flag.String("api", envOr("SC_API_URL", "http://localhost:8080"), "checker API base URL")
	email := flag.String("email", os.Getenv("SC_EMAIL"), "account email")
	password := flag.String("password", os.Getenv("SC_PASSWORD"), "account password")
	topK := flag.Int("top-k", 5, "number of matches to request")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "email and password are required (flags or SC_EMAIL/SC_PASSWORD)")
		os.Exit(1)
	}

	client := tui.NewClient(*apiURL)
	if err := client.Login(*email, *password); err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}

	summary := fmt.Sprintf("Connected to %s as %s", *apiURL, *email)
	p := tea.NewProgram(tui.New(client, summary, *topK), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
