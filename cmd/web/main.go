package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/peterkuimelis/skirmish/internal/config"
	"github.com/peterkuimelis/skirmish/internal/game"
	"github.com/peterkuimelis/skirmish/internal/store"
	"github.com/peterkuimelis/skirmish/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}

	addr := flag.String("addr", cfg.Addr, "HTTP address to listen on")
	cards := flag.String("cards", cfg.Catalog, "path to card catalog YAML file")
	decks := flag.String("decks", cfg.Decks, "path to decks YAML file")
	db := flag.String("db", cfg.DB, "SQLite match history (empty = disabled)")
	flag.Parse()

	cat, err := game.LoadCatalogFile(*cards)
	if err != nil {
		fail(fmt.Errorf("load catalog: %w", err))
	}

	opts := web.Options{
		Catalog:    cat,
		DecksFile:  *decks,
		Difficulty: cfg.Difficulty,
		ThinkScale: cfg.ThinkScale,
		Seed:       cfg.Seed,
	}
	if *db != "" {
		st, err := store.Open(*db)
		if err != nil {
			fail(err)
		}
		defer st.Close()
		opts.Store = st
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("skirmish web UI listening on %s", *addr)
	if err := web.NewServer(opts).ListenAndServe(ctx, *addr); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
