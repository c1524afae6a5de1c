package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/peterkuimelis/skirmish/internal/config"
	"github.com/peterkuimelis/skirmish/internal/deckbuilder"
	"github.com/peterkuimelis/skirmish/internal/game"
	skirmishnet "github.com/peterkuimelis/skirmish/internal/net"
	"github.com/peterkuimelis/skirmish/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := os.Args[1]
	switch cmd {
	case "host":
		runHost(ctx, cfg, os.Args[2:], false)
	case "play":
		runHost(ctx, cfg, os.Args[2:], true)
	case "join":
		runJoin(ctx, os.Args[2:])
	case "deck":
		runDeck(cfg, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  skirmish host [--deck N] [--port P] [--decks FILE] [--cards FILE] [--name NAME]")
	fmt.Println("  skirmish join [--deck N] [--addr ADDR] [--name NAME]")
	fmt.Println("  skirmish play [--deck N] [--ai-deck N] [--difficulty easy|medium|hard]")
	fmt.Println("  skirmish deck generate [--name NAME] [--seed S] [--prizes FILE]")
	fmt.Println("  skirmish deck analyze [--deck N]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Start a game server and play as Player 1")
	fmt.Println("  join    Connect to a game server and play as Player 2")
	fmt.Println("  play    Play against the AI")
	fmt.Println("  deck    Generate a balanced deck or analyze one from the decks file")
	fmt.Println()
	fmt.Println("Defaults come from SKIRMISH_* environment variables.")
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func loadCatalog(path string) *game.Catalog {
	cat, err := game.LoadCatalogFile(path)
	if err != nil {
		fail(fmt.Errorf("load catalog: %w", err))
	}
	return cat
}

func runHost(ctx context.Context, cfg config.Config, args []string, vsAI bool) {
	name := "host"
	if vsAI {
		name = "play"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	deck := fs.Int("deck", 1, "deck number to use (from decks.yaml)")
	port := fs.String("port", cfg.Port, "TCP port to listen on")
	decksFile := fs.String("decks", cfg.Decks, "path to decks file")
	cardsFile := fs.String("cards", cfg.Catalog, "path to card catalog file")
	playerName := fs.String("name", "", "your display name")
	aiDeck := fs.Int("ai-deck", 2, "deck number for the AI")
	difficulty := fs.String("difficulty", cfg.Difficulty, "AI difficulty: easy, medium or hard")
	fs.Parse(args)

	srv := &skirmishnet.Server{
		Catalog:  loadCatalog(*cardsFile),
		DeckFile: *decksFile,
		Port:     *port,
		HostDeck: *deck,
		HostName: *playerName,
		Seed:     cfg.Seed,
	}
	opponent := "human"
	if vsAI {
		cfg.Difficulty = *difficulty
		planner, err := cfg.Planner()
		if err != nil {
			fail(err)
		}
		srv.AI = planner
		srv.AIDeck = *aiDeck
		opponent = planner.Difficulty().String()
	}

	if cfg.DB != "" {
		st, err := store.Open(cfg.DB)
		if err != nil {
			fail(err)
		}
		defer st.Close()
		srv.OnEnd = st.Recorder(opponent)
	}

	if err := srv.Run(ctx); err != nil {
		fail(err)
	}
}

func runJoin(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	deck := fs.Int("deck", 2, "deck number to use (from decks.yaml)")
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	name := fs.String("name", "", "your display name")
	fs.Parse(args)

	if err := skirmishnet.Connect(ctx, *addr, *deck, *name); err != nil {
		fail(err)
	}
}

func runDeck(cfg config.Config, args []string) {
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}
	fs := flag.NewFlagSet("deck "+args[0], flag.ExitOnError)
	cardsFile := fs.String("cards", cfg.Catalog, "path to card catalog file")
	decksFile := fs.String("decks", cfg.Decks, "path to decks file")
	deck := fs.Int("deck", 1, "deck number to analyze")
	name := fs.String("name", "Generated", "name of the generated deck")
	seed := fs.Int64("seed", cfg.Seed, "generator seed (0 = random)")
	prizes := fs.String("prizes", "", "generate the card pool from a prizes file instead of the catalog")
	fs.Parse(args[1:])

	var cat *game.Catalog
	if *prizes != "" {
		cache := game.NewCatalogCache(func() ([]game.Prize, error) { return game.LoadPrizesFile(*prizes) })
		c, err := cache.Catalog()
		if err != nil {
			fail(err)
		}
		cat = c
	} else {
		cat = loadCatalog(*cardsFile)
	}
	switch args[0] {
	case "generate":
		d := deckbuilder.GenerateBalancedDeck(cat.All(), *name, time.Now(), game.NewRNG(*seed))
		out, err := game.EncodeDeckFile([]*game.Deck{d})
		if err != nil {
			fail(err)
		}
		os.Stdout.Write(out)
		printAnalysis(d.CardIDs, cat)

	case "analyze":
		deckName, ids, err := game.DeckByNumber(*decksFile, *deck)
		if err != nil {
			fail(err)
		}
		fmt.Printf("%s\n", deckName)
		printAnalysis(ids, cat)

	default:
		printUsage()
		os.Exit(1)
	}
}

func printAnalysis(ids []string, cat *game.Catalog) {
	a := deckbuilder.AnalyzeDeck(ids, cat)
	fmt.Fprintf(os.Stderr, "cards: %d  average cost: %.2f  attack/health: %d/%d  score: %.1f\n",
		a.CardCount, a.AverageManaCost, a.TotalAttack, a.TotalHealth, a.TotalScore)
	for cost, n := range a.ManaCurve {
		if n > 0 {
			fmt.Fprintf(os.Stderr, "  %2d | %s %d\n", cost, strings.Repeat("#", n), n)
		}
	}

	v := deckbuilder.ValidateDeck(ids, nil, cat)
	for _, e := range v.Errors {
		fmt.Fprintf(os.Stderr, "error: %s\n", e)
	}
	for _, w := range v.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if v.IsValid {
		fmt.Fprintln(os.Stderr, "deck is legal")
	}
}
