package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/NgigiN/wallet/internal/analyzer"
	"github.com/NgigiN/wallet/internal/config"
	"github.com/NgigiN/wallet/internal/dataset"
	"github.com/NgigiN/wallet/internal/discord"
	"github.com/NgigiN/wallet/internal/logger"
	"github.com/NgigiN/wallet/internal/report"
	"github.com/NgigiN/wallet/internal/storage"
)

func main() {
	command, args := parseCommand(os.Args[1:])
	if isHelp(command) {
		printUsage()
		return
	}

	if err := config.LoadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.ParseLevel(cfg.LogLevel))

	switch command {
	case "report":
		err = runReport(cfg, log, args)
	case "bot":
		err = runBot(cfg, log)
	case "import":
		err = runImport(cfg, log, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("Command failed")
	}
}

// parseCommand splits the command line into a subcommand and its flags.
// No arguments means "report".
func parseCommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "report", nil
	}
	return args[0], args[1:]
}

func isHelp(command string) bool {
	switch command {
	case "help", "-h", "--help":
		return true
	}
	return false
}

func printUsage() {
	fmt.Println("Wallet transaction analyzer")
	fmt.Println("\nUsage:")
	fmt.Println("  wallet <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  report    Print the standard query report (default)")
	fmt.Println("  bot       Serve queries and M-PESA ingestion on Discord")
	fmt.Println("  import    Copy the JSON dataset into the sqlite database")
	fmt.Println("  help      Show this help message")
}

// loadEngine reads the initial collection once from the configured source.
func loadEngine(cfg *config.Config, log zerolog.Logger) (*analyzer.Engine, error) {
	var (
		txs []*analyzer.Transaction
		err error
	)
	switch cfg.DataSource {
	case config.SourceSQLite:
		db, openErr := storage.NewDatabase(cfg.DatabasePath)
		if openErr != nil {
			return nil, openErr
		}
		defer db.Close()
		txs, err = db.LoadTransactions()
	default:
		txs, err = dataset.Load(cfg.DatasetPath)
	}
	if err != nil {
		return nil, err
	}

	log.Info().Str("source", cfg.DataSource).Int("transactions", len(txs)).Msg("Dataset loaded")
	return analyzer.New(txs), nil
}

func runReport(cfg *config.Config, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	today := fs.String("today", time.Now().Format("2006-01-02"), "end date of the open date range query")
	if err := fs.Parse(args); err != nil {
		return err
	}

	end, err := analyzer.ParseDate(*today)
	if err != nil {
		return err
	}
	engine, err := loadEngine(cfg, log)
	if err != nil {
		return err
	}
	return report.Write(os.Stdout, engine, report.Options{Today: end})
}

func runBot(cfg *config.Config, log zerolog.Logger) error {
	engine, err := loadEngine(cfg, log)
	if err != nil {
		return err
	}

	bot, err := discord.NewBot(cfg, engine, logger.WithComponent(log, "discord"))
	if err != nil {
		return fmt.Errorf("failed to initialize the discord bot: %w", err)
	}
	if err := bot.Start(); err != nil {
		return fmt.Errorf("failed to start bot: %w", err)
	}

	log.Info().Str("health_addr", cfg.HealthAddr).Msg("Bot is running")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
	log.Info().Msg("Bot stopped")
	return nil
}

func runImport(cfg *config.Config, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	from := fs.String("from", cfg.DatasetPath, "JSON dataset to import")
	to := fs.String("to", cfg.DatabasePath, "sqlite database file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	txs, err := dataset.Load(*from)
	if err != nil {
		return err
	}
	db, err := storage.NewDatabase(*to)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SaveTransactions(txs); err != nil {
		return err
	}
	total, err := db.Count()
	if err != nil {
		return err
	}
	log.Info().Str("from", *from).Str("to", *to).Int("imported", len(txs)).Int64("stored", total).Msg("Import complete")
	return nil
}
