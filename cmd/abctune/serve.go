package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	abctune "github.com/cbegin/abctune-go"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an HTTP parsing endpoint",
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

type parseRequest struct {
	ABC string `json:"abc"`
}

type parseNote struct {
	Pitch    string `json:"pitch"`
	MIDI     int    `json:"midi"`
	Duration string `json:"duration"`
}

type parseResponse struct {
	ID       int         `json:"id"`
	Title    string      `json:"title"`
	Type     string      `json:"type,omitempty"`
	Key      string      `json:"key"`
	Meter    string      `json:"meter"`
	Measures int         `json:"measures"`
	Played   int         `json:"played"`
	Melody   []parseNote `json:"melody"`
	Warnings []string    `json:"warnings,omitempty"`
	Skipped  []string    `json:"skipped,omitempty"`
}

func handleParse(w http.ResponseWriter, r *http.Request) {
	var input parseRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	tune, err := abctune.Parse(input.ABC)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	res := parseResponse{
		ID:       tune.ID,
		Title:    tune.Title,
		Type:     tune.Type,
		Key:      tune.Key.String(),
		Meter:    tune.Meter.String(),
		Measures: len(tune.Measures),
		Played:   len(tune.Expanded),
	}
	for n := range tune.Melody() {
		res.Melody = append(res.Melody, parseNote{
			Pitch:    n.Pitch.Name(),
			MIDI:     n.Pitch.MIDI(),
			Duration: n.Duration.RatString(),
		})
	}
	for _, warn := range tune.Warnings {
		res.Warnings = append(res.Warnings, warn.String())
	}
	for _, s := range tune.Skipped {
		res.Skipped = append(res.Skipped, s.String())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/parse", handleParse).Methods("POST")

	log.Printf("listening on %s", serveAddr)
	log.Fatal(http.ListenAndServe(serveAddr, cors.Default().Handler(router)))
}
