package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/quackhq/localops/internal/assets"
	"github.com/quackhq/localops/internal/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage:
  assets copy <source_dir> <dest_dir> [--dry-run]
  assets audit <project_root>
  assets sync <source_dir> <dest_dir> [--schedule "@every 30s"]`)
	os.Exit(1)
}

func main() {
	logger.Init()

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "copy":
		runCopy(os.Args[2:])
	case "audit":
		runAudit(os.Args[2:])
	case "sync":
		runSync(os.Args[2:])
	default:
		usage()
	}
}

func runCopy(args []string) {
	fs := flag.NewFlagSet("copy", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "List what would be copied without writing")
	_ = fs.Parse(args)

	if fs.NArg() != 2 {
		usage()
	}
	src, dst := fs.Arg(0), fs.Arg(1)

	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		log.Fatal().Msgf("source is not a directory: %s", src)
	}

	stats, err := assets.CopyImages(src, dst, *dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("copy failed")
	}

	logger.LogInfo("✅ copy finished", map[string]interface{}{
		"copied":  stats.Copied,
		"skipped": stats.Skipped,
		"total":   stats.Copied + stats.Skipped,
	})
	if *dryRun {
		log.Info().Msg("dry run: no files were written")
	}
}

func runAudit(args []string) {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		usage()
	}

	report, err := assets.Audit(fs.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("audit failed")
	}

	log.Info().Msgf("files scanned: %d", report.FilesScanned)
	log.Info().Msgf("images in public/: %d", report.PublicImages)
	log.Info().Msgf("unique image references: %d", report.References)
	log.Info().Msgf("missing images: %d", len(report.Missing))

	if len(report.Missing) == 0 {
		log.Info().Msg("✅ all referenced images found in the public folder")
		return
	}

	for _, missing := range report.Missing {
		logger.LogWarn("missing: "+missing.Path, map[string]interface{}{
			"referenced_in": missing.ReferencedBy,
		})
	}
	log.Error().Msg("these images will not work in a production build")
	os.Exit(1)
}

func runSync(args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	scheduleSpec := fs.String("schedule", "@every 30s", "Cron schedule for sync runs")
	_ = fs.Parse(args)

	if fs.NArg() != 2 {
		usage()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := assets.Sync(ctx, fs.Arg(0), fs.Arg(1), *scheduleSpec); err != nil {
		logger.LogError("sync failed", err, map[string]interface{}{
			"source": fs.Arg(0),
			"dest":   fs.Arg(1),
		})
		os.Exit(1)
	}
}
