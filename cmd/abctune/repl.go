package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	abctune "github.com/cbegin/abctune-go"
)

func init() {
	rootCmd.AddCommand(replCmd)
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively parse lines of ABC",
	Long: `Read lines of ABC music and print the resulting melody. "key G" and
"unit 1/4" change the session header; everything else is parsed as music.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return repl()
	},
}

func repl() error {
	rl, err := readline.New("abc> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	key := "C"
	unit := "1/8"

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "key "); ok {
			key = strings.TrimSpace(rest)
			continue
		}
		if rest, ok := strings.CutPrefix(line, "unit "); ok {
			unit = strings.TrimSpace(rest)
			continue
		}

		content := fmt.Sprintf("X:1\nL:%s\nK:%s\n%s\n", unit, key, line)
		tune, err := abctune.Parse(content)
		if err != nil {
			fmt.Println(err)
			continue
		}
		var parts []string
		for n := range tune.Melody() {
			parts = append(parts, fmt.Sprintf("%s:%s", n.Pitch.Name(), n.Duration.RatString()))
		}
		fmt.Println(strings.Join(parts, " "))
		for _, s := range tune.Skipped {
			fmt.Println(s)
		}
	}
}
