package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(melodyCmd)
}

var melodyCmd = &cobra.Command{
	Use:   "melody [file]",
	Short: "Print the flattened melody of the playthrough",
	Long: `Print the sounding notes of the tune in playthrough order, one per
line, with tied notes merged. Durations are fractions of a whole note.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tune, err := loadTune(args)
		if err != nil {
			return err
		}
		for n := range tune.Melody() {
			fmt.Printf("%-5s %s\n", n.Pitch.Name(), n.Duration.RatString())
		}
		return nil
	},
}
