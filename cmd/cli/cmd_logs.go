package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show stored sensor readings",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

var (
	logsPage  int
	logsLimit int
)

func init() {
	logsCmd.Flags().IntVar(&logsPage, "page", models.DefaultLogsPage, "page number")
	logsCmd.Flags().IntVar(&logsLimit, "limit", models.DefaultLogsLimit, "rows per page")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	page, err := newAPIClient().Logs(cmd.Context(), logsPage, logsLimit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tTEMP\tHUMIDITY\tSOIL\tLIGHT\tPUMP\tHUMIDIFIER\tFAN")
	for _, l := range page.Logs {
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%d\t%d\t%s\t%s\t%s\n",
			l.Timestamp, l.Temperature, l.Humidity, l.SoilMoisture, l.LightValue,
			onOff(l.WaterPump), onOff(l.Humidifier), onOff(l.CoolingFan))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), page.String())
	return nil
}
