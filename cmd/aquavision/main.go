package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ironsheep/aquavision/internal/config"
	"github.com/ironsheep/aquavision/internal/enhance"
	"github.com/ironsheep/aquavision/internal/imaging"
	"github.com/ironsheep/aquavision/internal/logger"
	"github.com/ironsheep/aquavision/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "--version", "-v", "version":
		fmt.Printf("aquavision %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		printHelp()
		return
	}

	cfg, err := config.Load()
	log := logger.New(cfg.LogLevel)
	defer func(logger *zap.SugaredLogger) {
		_ = logger.Sync()
	}(log)
	if err != nil {
		log.Fatalf("Invalid configuration: %s", err)
	}

	engine, err := enhance.New(cfg.Enhance)
	if err != nil {
		log.Fatalf("Invalid enhancement options: %s", err)
	}

	switch command {
	case "serve":
		log.Infof("AquaVision %s (built %s, commit %s)", Version, BuildTime, GitCommit)
		if err := serve(cfg, engine); err != nil {
			log.Fatalf("Server error: %s", err)
		}
	case "mcp":
		log.Debugf("AquaVision MCP server %s", Version)
		server.Version = Version
		if err := server.New(engine, cfg.MaxImagePixels).Run(os.Stdin, os.Stdout); err != nil {
			log.Fatalf("Server error: %s", err)
		}
	case "enhance":
		if len(os.Args) != 4 {
			fmt.Fprintln(os.Stderr, "Usage: aquavision enhance <input> <output>")
			os.Exit(2)
		}
		if err := enhanceFile(engine, cfg.MaxImagePixels, os.Args[2], os.Args[3]); err != nil {
			log.Errorf("Enhancement failed: %s", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printHelp()
		os.Exit(2)
	}
}

// enhanceFile runs the engine on one file and reports the color balance
// before and after.
func enhanceFile(engine *enhance.Engine, maxPixels int, in, out string) error {
	img, format, err := imaging.LoadFile(in, maxPixels)
	if err != nil {
		return err
	}
	zap.S().Debugf("Loaded %s %s: %dx%d", format, in, img.Width, img.Height)

	enhanced, err := engine.Enhance(img)
	if err != nil {
		return err
	}
	if err := imaging.SaveFile(out, enhanced); err != nil {
		return err
	}

	before, after := imaging.Stats(img), imaging.Stats(enhanced)
	fmt.Printf("%s -> %s (%dx%d)\n", in, out, enhanced.Width, enhanced.Height)
	fmt.Printf("  channel means before: R=%.2f G=%.2f B=%.2f (spread %.2f)\n",
		before.Mean.R, before.Mean.G, before.Mean.B, before.Spread)
	fmt.Printf("  channel means after:  R=%.2f G=%.2f B=%.2f (spread %.2f)\n",
		after.Mean.R, after.Mean.G, after.Mean.B, after.Spread)
	return nil
}

func printHelp() {
	fmt.Println("aquavision - underwater image enhancement")
	fmt.Println()
	fmt.Println("Usage: aquavision [command]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve                     Run the HTTP API (default)")
	fmt.Println("  mcp                       Run the MCP server on stdin/stdout")
	fmt.Println("  enhance <input> <output>  Enhance a single file")
	fmt.Println("  --version, -v             Print version information")
	fmt.Println("  --help, -h                Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  LOGGING_LEVEL=DEVELOPMENT     Enable debug logging")
	fmt.Println("  HTTP_ADDR=:8000               API listen address")
	fmt.Println("  HEALTH_ADDR=:8086             Liveness/readiness listen address")
	fmt.Println("  CORS_ALLOWED_ORIGINS=...      Comma-separated allowed origins")
	fmt.Println("  MAX_UPLOAD_BYTES=10485760     Upload size limit")
	fmt.Println("  MAX_IMAGE_PIXELS=50000000     Decoded pixel limit")
	fmt.Println("  CLAHE_CLIP_LIMIT=2.0          Histogram clip limit")
	fmt.Println("  CLAHE_TILE_GRID=8             Tiles per axis")
	fmt.Println("  ENHANCE_TIMEOUT_MS=30000      Per-request engine timeout")
	fmt.Println("  MAX_CONCURRENT_ENHANCE=0      Parallel enhancements (0 = CPU count)")
	fmt.Println("  RESULT_CACHE_SIZE=64          Cached results (0 disables)")
	fmt.Println("  CONFIDENCE_PLACEHOLDER=0.94   Confidence reported by the API")
}
