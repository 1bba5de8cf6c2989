package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Classify plant health from the latest reading",
	Args:  cobra.NoArgs,
	RunE:  runPredict,
}

var predictHistory bool

func init() {
	predictCmd.Flags().BoolVar(&predictHistory, "history", false, "list stored predictions instead")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	client := newAPIClient()
	out := cmd.OutOrStdout()

	if predictHistory {
		items, err := client.PredictionHistory(cmd.Context())
		if err != nil {
			return err
		}
		for _, item := range items {
			ts := "-"
			if item.Timestamp != nil {
				ts = *item.Timestamp
			}
			fmt.Fprintf(out, "%-20s %s\n", ts, item.Prediction)
		}
		return nil
	}

	result, err := client.Predict(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(out, strings.Repeat("=", 40))
	fmt.Fprintf(out, "Prediction:     %s\n", result.Prediction)
	fmt.Fprintf(out, "Timestamp:      %s\n", result.Timestamp)
	fmt.Fprintf(out, "Soil moisture:  %d\n", result.Features.SoilMoisture)
	fmt.Fprintf(out, "Temperature:    %.1f\n", result.Features.Temperature)
	fmt.Fprintf(out, "Humidity:       %.1f\n", result.Features.Humidity)
	fmt.Fprintf(out, "Light:          %d\n", result.Features.LightIntensity)
	fmt.Fprintln(out, strings.Repeat("=", 40))
	return nil
}
