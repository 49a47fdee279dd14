package assets

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ImageExtensions are the asset types handled by the copy and audit tools.
var ImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".webp": true,
	".ico":  true,
}

// CopyStats reports the outcome of a copy run.
type CopyStats struct {
	Copied  int
	Skipped int
}

// FindImages returns all image files under dir, recursively.
func FindImages(dir string) ([]string, error) {
	var images []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && ImageExtensions[strings.ToLower(filepath.Ext(path))] {
			images = append(images, path)
		}
		return nil
	})
	return images, err
}

// CopyImages copies every image under srcDir into dstDir, preserving the
// relative directory structure. Files that already exist at the destination
// with the same size are skipped. With dryRun nothing is written.
func CopyImages(srcDir, dstDir string, dryRun bool) (CopyStats, error) {
	var stats CopyStats

	images, err := FindImages(srcDir)
	if err != nil {
		return stats, fmt.Errorf("failed to scan %s: %w", srcDir, err)
	}
	if len(images) == 0 {
		log.Warn().Msgf("no images found in %s", srcDir)
		return stats, nil
	}

	log.Info().Msgf("📸 found %d images in %s", len(images), srcDir)

	for _, img := range images {
		rel, err := filepath.Rel(srcDir, img)
		if err != nil {
			return stats, err
		}
		dst := filepath.Join(dstDir, rel)

		if sameSize(img, dst) {
			log.Info().Msgf("skip (exists): %s", rel)
			stats.Skipped++
			continue
		}

		if dryRun {
			log.Info().Msgf("would copy: %s", rel)
			stats.Copied++
			continue
		}

		if err := copyFile(img, dst); err != nil {
			return stats, err
		}
		log.Info().Msgf("copied: %s", rel)
		stats.Copied++
	}

	return stats, nil
}

func sameSize(src, dst string) bool {
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return false
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false
	}
	return dstInfo.Size() == srcInfo.Size()
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
