package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hookmine/hookmine/internal/config"
	"github.com/hookmine/hookmine/internal/crypto"
	logpkg "github.com/hookmine/hookmine/internal/logger"
	minerpkg "github.com/hookmine/hookmine/pkg/miner"
	"github.com/hookmine/hookmine/pkg/types"
)

var (
	cfg    = config.NewConfig()
	logger *logpkg.Logger
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "hookmine",
		Short: "Fast CREATE2 and CREATE3 salt miner for Uniswap V4 hooks",
		Long: `A command line utility for mining deployment salts whose resulting
contract address matches a target pattern: hook permission flags in the low
14 bits, an optional vanity prefix in the high bits.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfg.Factory, "factory", "f", "", "Factory contract address (default: the scheme's well-known factory)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Prefix, "prefix", "p", "", "Address prefix to match (hex)")
	rootCmd.PersistentFlags().IntVarP(&cfg.Workers, "workers", "w", runtime.NumCPU(), "Number of worker goroutines")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&cfg.LogFile, "log-file", "l", "", "Log file for progress tracking (default: stdout)")
	rootCmd.PersistentFlags().IntVarP(&cfg.LogInterval, "log-interval", "i", 5, "Logging interval in seconds")

	create2Cmd := &cobra.Command{
		Use:   "create2 <deployer> <init-code-hash> [flags-hex]",
		Short: "Mine a CREATE2 salt",
		Long: `Mines a 32-byte salt such that the CREATE2 address derived from the
factory, the salt and the init code hash matches the target pattern.`,
		Args: cobra.RangeArgs(2, 3),
		Run: func(cmd *cobra.Command, args []string) {
			cfg.Scheme = config.SchemeCreate2
			cfg.Deployer = args[0]
			cfg.InitCodeHash = args[1]
			if len(args) == 3 {
				cfg.Flags = args[2]
			}
			runMiner()
		},
	}

	create3Cmd := &cobra.Command{
		Use:   "create3 <deployer> [flags-hex]",
		Short: "Mine a CREATE3 salt",
		Long: `Mines a salt for the two-step CREATE3 deployment: a proxy deployed via
CREATE2 with a fixed init code hash, followed by the proxy's first CREATE.
The resulting address is independent of the contract's init code.`,
		Args: cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			cfg.Scheme = config.SchemeCreate3
			cfg.Deployer = args[0]
			if len(args) == 2 {
				cfg.Flags = args[1]
			}
			runMiner()
		},
	}

	rootCmd.AddCommand(create2Cmd, create3Cmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMiner() {
	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Setup logging
	setupLogging()

	deployer, _ := cfg.DeployerAddress()
	factory, _ := cfg.FactoryAddress()
	pat, _ := cfg.Pattern()
	schm, err := cfg.BuildScheme()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Printf("Starting %s salt miner with %d workers...", cfg.Scheme, cfg.Workers)
	logger.Printf("Target: %s", cfg.TargetDescription())
	logger.Printf("Deployer address: %s", crypto.ChecksumHex(deployer))
	logger.Printf("Factory address: %s", crypto.ChecksumHex(factory))

	opts := minerpkg.Options{
		Workers:     cfg.Workers,
		LogInterval: time.Duration(cfg.LogInterval) * time.Second,
	}
	if cfg.Verbose {
		opts.Logger = logger
	}
	miner := minerpkg.New(deployer, schm, pat, opts)

	// Set up signal handling for Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start mining in a goroutine
	type outcome struct {
		result *types.Result
		err    error
	}
	resultChan := make(chan outcome, 1)
	go func() {
		result, err := miner.Mine()
		resultChan <- outcome{result, err}
	}()

	// Wait for either completion or signal
	select {
	case out := <-resultChan:
		if out.err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", out.err)
			os.Exit(1)
		}
		reportResult(out.result)
	case <-sigChan:
		// Interrupted by Ctrl+C
		logger.Println("\nReceived interrupt signal (Ctrl+C). Stopping miners...")
		miner.Stop()
		<-resultChan
		logger.Printf("Mining stopped by user after %d attempts.", miner.Attempts())
	}
}

func reportResult(result *types.Result) {
	if result == nil {
		logger.Println("No match found.")
		return
	}

	logger.Printf("🎉 Found match!")
	logger.Printf("Found salt %s ==> %s", result.Salt.Hex(), crypto.ChecksumHex(result.Address))
	logger.Printf("Attempts: %d", result.Attempts)
	logger.Printf("Duration: %v", result.Duration)

	// Calculate rate safely
	rate := 0.0
	if result.Duration.Seconds() > 0 {
		rate = float64(result.Attempts) / result.Duration.Seconds()
	}
	logger.Printf("Rate: %.2f hashes/sec", rate)
}

func setupLogging() {
	if cfg.LogFile != "" {
		// Log to file
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		logger = logpkg.NewWriter(file)
		logger.SetFlags(log.LstdFlags | log.Lmicroseconds)
	} else {
		// Log to stdout
		logger = logpkg.New()
		logger.SetFlags(log.LstdFlags)
	}
}
