package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/quackhq/localops/internal/config"
	"github.com/quackhq/localops/internal/imagegen"
	"github.com/quackhq/localops/internal/logger"
)

func main() {
	logger.Init()
	cfg := config.LoadConfig()
	prefs := imagegen.LoadPrefs(cfg.PrefsPath)

	var (
		prompt     string
		output     string
		size       string
		quality    string
		background string
		n          int
		model      string
	)

	flag.StringVar(&prompt, "prompt", "", "Image generation prompt (max 32,000 chars)")
	flag.StringVar(&output, "output", "", "Output file path (.png, .webp, .jpg)")
	flag.StringVar(&size, "size", "auto", "Image size (1024x1024, 1536x1024, 1024x1536, auto)")
	flag.StringVar(&quality, "quality", "high", "Image quality (low, medium, high)")
	flag.StringVar(&background, "background", "opaque", "Background type (opaque, transparent, auto)")
	flag.IntVar(&n, "n", 1, "Number of images to generate (1-10)")
	flag.StringVar(&model, "model", prefs.ImageModel(), "Model to use")
	flag.Parse()

	if prompt == "" || output == "" {
		log.Fatal().Msg("--prompt and --output are required")
	}
	if n < 1 || n > 10 {
		log.Fatal().Msg("--n must be between 1 and 10")
	}
	if err := imagegen.ValidatePrompt(prompt); err != nil {
		log.Fatal().Err(err).Msg("invalid prompt")
	}

	format, err := imagegen.OutputFormat(output)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid output path")
	}

	if background == "transparent" && format == "jpeg" {
		log.Warn().Msg("JPEG doesn't support transparency, switching to PNG")
		output = strings.TrimSuffix(output, filepath.Ext(output)) + ".png"
		format = "png"
	}

	apiKey, err := imagegen.ResolveAPIKey(prefs)
	if err != nil {
		log.Fatal().Err(err).Msg("missing credentials")
	}

	client := imagegen.NewClient(openai.NewClient(apiKey))

	log.Info().Msgf("🎨 generating %d image(s) with %s (quality=%s size=%s format=%s)", n, model, quality, size, format)

	images, err := client.Generate(context.Background(), imagegen.Request{
		Prompt:       prompt,
		Model:        model,
		N:            n,
		Size:         size,
		Quality:      quality,
		Background:   background,
		OutputFormat: format,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("generation failed")
	}

	saved, err := imagegen.SaveImages(images, output)
	if err != nil {
		log.Fatal().Err(err).Msg("could not save images")
	}

	for _, path := range saved {
		fmt.Println(path)
	}
	log.Info().Msgf("✅ generated %d image(s)", len(saved))
}
