package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	serverURL  string
)

var rootCmd = &cobra.Command{
	Use:   "plantmonitor",
	Short: "Smart plant monitoring backend",
	Long: `plantmonitor receives plant sensor readings, switches the water pump,
humidifier and cooling fan, streams live updates and classifies plant health.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "directory containing config.yaml")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", getEnv("PLANTMONITOR_URL", "http://localhost:5000"), "base URL of a running server")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
