package cmd

import (
	"fmt"
	"math/rand"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evtol/core/fleet"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var fleetLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List manufacturers and the aircraft assigned to each",
	RunE:  runFleetLs,
}

func init() {
	fleetCmd.AddCommand(fleetLsCmd)
	rootCmd.AddCommand(fleetCmd)
}

func runFleetLs(cmd *cobra.Command, args []string) error {
	makers, err := fleet.LoadManufacturers(cfg.Simulation.ManufacturersFile)
	if err != nil {
		return err
	}
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	counts := fleet.AssignCapacity(cfg.Simulation.Aircraft, len(makers), rand.New(rand.NewSource(seed)))

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MANUFACTURER\tAIRCRAFT\tFLIGHT\tCHARGE\tPASSENGERS")
	for i, m := range makers {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\n", m.Name, counts[i], m.FlightTime().Round(time.Minute), m.ChargeTime().Round(time.Minute), m.PassengerCount)
	}
	return tw.Flush()
}
