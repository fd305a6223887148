package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"ozon-orders/internal/core/config"
	"ozon-orders/internal/core/database"
	"ozon-orders/internal/core/logger"
	deliveryadapter "ozon-orders/internal/features/delivery/adapters"
	deliveryservice "ozon-orders/internal/features/delivery/service"

	"go.uber.org/zap"
)

// command is a console subcommand. It returns the process exit code.
type command struct {
	description string
	run         func(ctx context.Context, cfg *config.ConsoleConfig, out io.Writer) int
}

var commands = map[string]command{
	"delivery:ozon-fbs": {
		description: "Adds the Ozon FBS courier delivery type",
		run:         deliveryOzonFBS,
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, out io.Writer) int {
	fs := flag.NewFlagSet("ozon-console", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", ".", "directory containing the .env file")
	fs.Usage = func() { usage(fs, out) }

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() == 0 {
		usage(fs, out)
		return 2
	}

	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fmt.Fprintf(out, "unknown command %q\n\n", fs.Arg(0))
		usage(fs, out)
		return 2
	}

	cfg, err := config.LoadConsole(*configPath)
	if err != nil {
		fmt.Fprintf(out, "failed to load config: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Printf("Failed to init logger: %v", err)
		return 1
	}
	defer logger.Sync()

	return cmd.run(ctx, cfg, out)
}

func usage(fs *flag.FlagSet, out io.Writer) {
	fmt.Fprintln(out, "Usage: ozon-console [flags] <command>")
	fmt.Fprintln(out, "\nCommands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-20s %s\n", name, commands[name].description)
	}

	fmt.Fprintln(out, "\nFlags:")
	fs.PrintDefaults()
}

func deliveryOzonFBS(ctx context.Context, cfg *config.ConsoleConfig, out io.Writer) int {
	l := logger.Get()

	pool, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		l.Error("Database connection failed", zap.Error(err))
		fmt.Fprintf(out, "error: %v\n", err)
		return 1
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, cfg.Database.MigrationsDir); err != nil {
		l.Error("Migrations failed", zap.Error(err))
		fmt.Fprintf(out, "error: %v\n", err)
		return 1
	}

	svc := deliveryservice.NewDeliveryService(deliveryadapter.NewPostgresDeliveryRepository(pool))

	created, err := svc.EnsureOzonFBS(ctx)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return 1
	}

	if created {
		fmt.Fprintln(out, "Added Ozon FBS courier delivery")
	}

	return 0
}
