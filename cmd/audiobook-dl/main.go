package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"audiobook-downloader/internal/config"
	"audiobook-downloader/internal/download"
)

func main() {
	// Command line flags
	var (
		urlFlag      = flag.String("url", "", "Listing URL to scrape (overrides config)")
		outputFlag   = flag.String("output", "", "Output directory (overrides config)")
		configFlag   = flag.String("config", "", "Path to config file")
		playlistFlag = flag.Bool("playlist", false, "Create playlist file")
		noTagsFlag   = flag.Bool("no-tags", false, "Skip ID3 tag writing")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag   = flag.Bool("dry-run", false, "Parse the listing without downloading")
	)

	flag.Parse()

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *outputFlag != "" {
		settings.DownloadsPath = *outputFlag + "/{title}"
	}
	if *playlistFlag {
		settings.CreatePlaylist = true
	}
	if *noTagsFlag {
		settings.ModifyTags = false
		settings.SaveCoverInTags = false
	}

	listingURL := *urlFlag
	if listingURL == "" && flag.NArg() > 0 {
		listingURL = flag.Arg(0)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "❌ "
		case download.LevelWarning:
			prefix = "⚠️  "
		case download.LevelSuccess:
			prefix = "✅ "
		case download.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Println(prefix + event.Message)
	})

	// Initialize
	fmt.Println("🎧 Audiobook Downloader")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	if err := manager.Initialize(ctx, listingURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		os.Exit(1)
	}

	if *dryRunFlag {
		fmt.Println("\n[Dry run - not downloading]")
		for _, name := range manager.GetRecordNames() {
			fmt.Println("  ♪ " + name)
		}
		return
	}

	// Start downloads
	fmt.Println("\n📥 Starting downloads...")
	fmt.Println()

	if err := manager.StartDownloads(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nDownload cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		os.Exit(1)
	}

	received, _, filesReceived, filesTotal := manager.GetProgress()
	summary := manager.Summary()
	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("✨ Complete! %d tagged, %d failed, %d reused, %d/%d files (%.2f MB)\n",
		summary.Tagged, summary.Failed, summary.ReusedExisting,
		filesReceived, filesTotal, float64(received)/1024/1024)

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
