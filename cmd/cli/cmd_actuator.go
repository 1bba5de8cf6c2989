package main

import (
	"fmt"
	"strings"

	"github.com/raneshrk02/smart-plant-monitoring/pkg/api"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
	"github.com/spf13/cobra"
)

var actuatorCmd = &cobra.Command{
	Use:   "actuator",
	Short: "Inspect or switch actuators on a running server",
}

var actuatorGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current actuator states",
	Args:  cobra.NoArgs,
	RunE:  runActuatorGet,
}

var actuatorSetCmd = &cobra.Command{
	Use:   "set <actuator> <on|off>",
	Short: "Switch one actuator",
	Long:  "Switch one actuator. Valid actuators: " + strings.Join(models.ValidActuators, ", "),
	Args:  cobra.ExactArgs(2),
	RunE:  runActuatorSet,
}

func init() {
	rootCmd.AddCommand(actuatorCmd)
	actuatorCmd.AddCommand(actuatorGetCmd)
	actuatorCmd.AddCommand(actuatorSetCmd)
}

func newAPIClient() *api.Client {
	return api.NewClient(serverURL)
}

func runActuatorGet(cmd *cobra.Command, args []string) error {
	states, err := newAPIClient().GetActuators(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range models.ValidActuators {
		fmt.Fprintf(out, "%-12s %s\n", name, onOff(states.Get(name)))
	}
	return nil
}

func runActuatorSet(cmd *cobra.Command, args []string) error {
	on, err := models.ParseActuatorState(args[1])
	if err != nil {
		return err
	}

	resp, err := newAPIClient().SetActuator(cmd.Context(), args[0], on)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", resp.Message)
	return nil
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
