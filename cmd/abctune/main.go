package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	abctune "github.com/cbegin/abctune-go"
)

var tuneNumber int

var rootCmd = &cobra.Command{
	Use:   "abctune",
	Short: "Work with tunes in ABC notation",
	Long:  `Parse ABC notation, expand repeats into a playthrough, and export melodies.`,
}

func main() {
	rootCmd.PersistentFlags().IntVarP(&tuneNumber, "tune", "n", 0,
		"X: reference number of the tune to pick from a tunebook (default: first)")
	cobra.CheckErr(rootCmd.Execute())
}

// readInput reads the named file, or stdin for "-" or no argument.
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// loadTune parses the input and picks one tune: by --tune number when
// given, the first otherwise.
func loadTune(args []string) (*abctune.Tune, error) {
	content, err := readInput(args)
	if err != nil {
		return nil, err
	}
	tunes, err := abctune.ParseBook(content)
	if err != nil {
		return nil, err
	}
	if len(tunes) == 0 {
		return nil, fmt.Errorf("no tunes in input")
	}
	if tuneNumber == 0 {
		return tunes[0], nil
	}
	for _, t := range tunes {
		if t.ID == tuneNumber {
			return t, nil
		}
	}
	return nil, fmt.Errorf("no tune with X:%d in input", tuneNumber)
}
