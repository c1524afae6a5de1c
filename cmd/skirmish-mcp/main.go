package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/peterkuimelis/skirmish/internal/config"
	"github.com/peterkuimelis/skirmish/internal/game"
	skirmishmcp "github.com/peterkuimelis/skirmish/internal/mcp"
	"github.com/peterkuimelis/skirmish/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}

	decks := flag.String("decks", cfg.Decks, "path to decks YAML file")
	cards := flag.String("cards", cfg.Catalog, "path to card catalog YAML file")
	port := flag.String("port", cfg.Port, "TCP port for a human opponent")
	db := flag.String("db", cfg.DB, "SQLite match history (empty = disabled)")
	flag.Parse()

	cat, err := game.LoadCatalogFile(*cards)
	if err != nil {
		fail(fmt.Errorf("load catalog: %w", err))
	}

	opts := skirmishmcp.Options{
		Catalog:    cat,
		DecksFile:  *decks,
		Port:       *port,
		ThinkScale: cfg.ThinkScale,
		Seed:       cfg.Seed,
	}
	if *db != "" {
		st, err := store.Open(*db)
		if err != nil {
			fail(err)
		}
		defer st.Close()
		opts.OnEnd = st.Record
	}

	s := server.NewMCPServer("skirmish", "1.0.0")
	skirmishmcp.NewTools(opts).Register(s)

	if err := server.ServeStdio(s); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
