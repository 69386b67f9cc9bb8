package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dashboard describes the home page.
type Dashboard struct {
	Title   string `yaml:"title"`
	Tagline string `yaml:"tagline"`
	Cards   []Card `yaml:"cards"`
}

// Card links the home page to one view.
type Card struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Path        string `yaml:"path"`
	Color       string `yaml:"color"`
}

func DefaultDashboard() Dashboard {
	return Dashboard{
		Title:   "OctoFit Tracker",
		Tagline: "Track your fitness activities, compete with your team, and achieve your fitness goals!",
		Cards: []Card{
			{Title: "Users", Description: "View all registered users and their fitness profiles", Icon: "👥", Path: "/users", Color: "primary"},
			{Title: "Activities", Description: "Browse all fitness activities and workout logs", Icon: "🏃", Path: "/activities", Color: "success"},
			{Title: "Teams", Description: "Explore teams and their members", Icon: "🤝", Path: "/teams", Color: "info"},
			{Title: "Leaderboard", Description: "Check rankings and compete with others", Icon: "🏆", Path: "/leaderboard", Color: "warning"},
			{Title: "Workouts", Description: "Discover personalized workout suggestions", Icon: "💪", Path: "/workouts", Color: "danger"},
		},
	}
}

// LoadDashboard reads a YAML dashboard file. Omitted fields keep their defaults.
func LoadDashboard(path string) (Dashboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to read dashboard file: %w", err)
	}

	dashboard := DefaultDashboard()
	var file Dashboard
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Dashboard{}, fmt.Errorf("failed to parse dashboard file: %w", err)
	}

	if file.Title != "" {
		dashboard.Title = file.Title
	}
	if file.Tagline != "" {
		dashboard.Tagline = file.Tagline
	}
	if len(file.Cards) > 0 {
		dashboard.Cards = file.Cards
	}
	return dashboard, nil
}
