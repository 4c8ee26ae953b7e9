package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/tempbox/tempbox/internal/account"
	"github.com/tempbox/tempbox/internal/app"
	"github.com/tempbox/tempbox/internal/credstore"
	"github.com/tempbox/tempbox/internal/directory"
	"github.com/tempbox/tempbox/internal/model"
	"github.com/tempbox/tempbox/internal/provider"
	"github.com/tempbox/tempbox/internal/session"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	creds, err := credstore.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening credential store: %v\n", err)
		os.Exit(1)
	}

	dir, err := directory.Open(cfg.DirectoryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening account directory: %v\n", err)
		os.Exit(1)
	}
	defer dir.Close()

	client := provider.New(cfg.Provider.BaseURL, time.Duration(cfg.Provider.TimeoutSec)*time.Second)
	accounts := account.New(client, dir)
	sess := session.New(creds)

	program := tea.NewProgram(
		app.New(cfg, sess, accounts, client, dir),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "running tempbox: %v\n", err)
		os.Exit(1)
	}
}
