package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ironsheep/omr-service/internal/config"
	"github.com/ironsheep/omr-service/internal/logger"
	"github.com/ironsheep/omr-service/internal/mcp"
	"github.com/ironsheep/omr-service/internal/omr"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("omr-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("omr-mcp - MCP server for grading bubble answer sheets")
			fmt.Println()
			fmt.Println("Usage: omr-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  OMR_LOG_LEVEL=debug          Log level (debug, info, warn, error)")
			fmt.Println("  OMR_PROFILE=/path/cal.yaml   Calibration profile for the scanner")
			fmt.Println("  OMR_MAX_QUESTIONS=500        Largest number_of_questions accepted")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client.")
			return
		}
	}

	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr; stdout is for the MCP protocol
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Debug("starting omr mcp server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit))

	params, err := cfg.Params()
	if err != nil {
		log.Fatal("failed to load calibration profile", zap.String("profile", cfg.Scan.Profile), zap.Error(err))
	}

	scanner, err := omr.NewScanner(params)
	if err != nil {
		log.Fatal("invalid calibration", zap.Error(err))
	}
	scanner.WithMaxQuestions(cfg.Scan.MaxQuestions)

	srv := mcp.New(scanner, Version, log)
	if err := srv.Run(); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
