package main

import (
	"fmt"
	"os"
	"path/filepath"

	"spendlens/cmd/categories"
	"spendlens/cmd/categorize"
	"spendlens/cmd/ingest"
	reportcmd "spendlens/cmd/report"
	"spendlens/cmd/root"
	subscriptionscmd "spendlens/cmd/subscriptions"
	"spendlens/cmd/suggest"

	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables before any configuration is read
	loadEnvSilently()

	root.Init()

	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(subscriptionscmd.Cmd)
	root.Cmd.AddCommand(suggest.Cmd)
	root.Cmd.AddCommand(reportcmd.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		// Try to find .env in parent directory (project root)
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}

	_ = godotenv.Load(envFile)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
