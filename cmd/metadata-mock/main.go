package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"strings"
)

type movieEntry struct {
	Title       string   `json:"title"`
	Director    *string  `json:"director"`
	Country     *string  `json:"country"`
	Description *string  `json:"description"`
	Actors      []string `json:"actors"`
}

func main() {
	var (
		port    = flag.String("port", "9099", "port to listen on")
		data    = flag.String("data", "mock-metadata.json", "path to mock data file")
		apiKey  = flag.String("api-key", "", "require this X-API-Key when set")
		verbose = flag.Bool("log", false, "enable request logging")
	)
	flag.Parse()

	file, err := os.ReadFile(*data)
	if err != nil {
		log.Fatalf("read mock data: %v", err)
	}

	var entries []movieEntry
	if err := json.Unmarshal(file, &entries); err != nil {
		log.Fatalf("parse mock data: %v", err)
	}
	byTitle := make(map[string]movieEntry, len(entries))
	for _, e := range entries {
		byTitle[strings.ToLower(e.Title)] = e
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/movies", func(w http.ResponseWriter, r *http.Request) {
		if *apiKey != "" && r.Header.Get("X-API-Key") != *apiKey {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		title := r.URL.Query().Get("title")
		if *verbose {
			log.Printf("lookup %q", title)
		}
		entry, ok := byTitle[strings.ToLower(title)]
		if !ok {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entry); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	addr := ":" + *port
	log.Printf("mock metadata listening on %s (%d titles)", addr, len(byTitle))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
