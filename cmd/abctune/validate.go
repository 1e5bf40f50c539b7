package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check measure durations against the meter",
	RunE: func(cmd *cobra.Command, args []string) error {
		tune, err := loadTune(args)
		if err != nil {
			return err
		}
		for _, w := range tune.Warnings {
			fmt.Println(w)
		}
		if n := len(tune.Warnings); n > 0 {
			return fmt.Errorf("%d measure(s) disagree with the meter", n)
		}
		fmt.Println("ok")
		return nil
	},
}
