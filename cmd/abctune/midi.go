package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var midiOut string

func init() {
	midiCmd.Flags().StringVarP(&midiOut, "out", "o", "out.mid", "output file")
	rootCmd.AddCommand(midiCmd)
}

var midiCmd = &cobra.Command{
	Use:   "midi [file]",
	Short: "Render the playthrough as a standard MIDI file",
	RunE: func(cmd *cobra.Command, args []string) error {
		tune, err := loadTune(args)
		if err != nil {
			return err
		}
		f, err := os.Create(midiOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := tune.WriteSMF(f); err != nil {
			return err
		}
		fmt.Printf("wrote %s to %s\n", tune, midiOut)
		return nil
	},
}
