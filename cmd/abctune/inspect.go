package main

import (
	"fmt"

	"github.com/spf13/cobra"

	abctune "github.com/cbegin/abctune-go"
	"github.com/cbegin/abctune-go/internal/abc"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show the parsed structure of a tune",
	RunE: func(cmd *cobra.Command, args []string) error {
		tune, err := loadTune(args)
		if err != nil {
			return err
		}
		printTune(tune)
		return nil
	},
}

func printTune(t *abctune.Tune) {
	fmt.Printf("X: %d\n", t.ID)
	fmt.Printf("title:    %s\n", t.Title)
	if t.Type != "" {
		fmt.Printf("type:     %s\n", t.Type)
	}
	fmt.Printf("key:      %s\n", t.Key)
	fmt.Printf("meter:    %s\n", t.Meter)
	fmt.Printf("unit:     %s\n", t.Unit.RatString())
	fmt.Printf("measures: %d written, %d played\n", len(t.Measures), len(t.Expanded))

	for _, f := range t.Header {
		fmt.Printf("  %s (%s): %s\n", f.Tag, abc.FieldName(f.Tag), f.Value)
	}
	for _, w := range t.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for _, s := range t.Skipped {
		fmt.Printf("skipped: %s\n", s)
	}
}
