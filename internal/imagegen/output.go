package imagegen

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputFormat infers the API output format from the file extension.
func OutputFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png", nil
	case ".webp":
		return "webp", nil
	case ".jpg", ".jpeg":
		return "jpeg", nil
	default:
		return "", fmt.Errorf("unsupported file extension %q: use .png, .webp, or .jpg", filepath.Ext(path))
	}
}

// SaveImages decodes base64 images to disk. A single image lands at
// outputPath; multiple images are numbered stem_1.ext, stem_2.ext, ...
func SaveImages(images []string, outputPath string) ([]string, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if len(images) == 1 {
		if err := writeImage(outputPath, images[0]); err != nil {
			return nil, err
		}
		return []string{outputPath}, nil
	}

	ext := filepath.Ext(outputPath)
	stem := strings.TrimSuffix(filepath.Base(outputPath), ext)
	dir := filepath.Dir(outputPath)

	saved := make([]string, 0, len(images))
	for i, img := range images {
		path := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i+1, ext))
		if err := writeImage(path, img); err != nil {
			return saved, err
		}
		saved = append(saved, path)
	}
	return saved, nil
}

func writeImage(path, b64 string) error {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return fmt.Errorf("failed to decode image data: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
