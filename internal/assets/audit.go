package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// SourceExtensions are the web-app source files scanned for image references.
var SourceExtensions = map[string]bool{
	".ts":   true,
	".tsx":  true,
	".js":   true,
	".jsx":  true,
	".vue":  true,
	".html": true,
}

var skipDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"target":       true,
	".git":         true,
	".next":        true,
	"__pycache__":  true,
}

const extAlts = `png|jpg|jpeg|gif|svg|webp|ico`

// Reference patterns: absolute /images/ paths, relative variants, and
// import/require statements.
var refPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)['"` + "`" + `](/images/[^'"` + "`" + ` $]+\.(?:` + extAlts + `))['"` + "`" + `]`),
	regexp.MustCompile(`(?i)['"` + "`" + `](\.\.?/images/[^'"` + "`" + ` $]+\.(?:` + extAlts + `))['"` + "`" + `]`),
	regexp.MustCompile(`(?i)import\s+\w+\s+from\s+['"` + "`" + `]([^'"` + "`" + ` $]+\.(?:` + extAlts + `))['"` + "`" + `]`),
	regexp.MustCompile(`(?i)require\(['"` + "`" + `]([^'"` + "`" + ` $]+\.(?:` + extAlts + `))['"` + "`" + `]\)`),
}

// MissingImage is a referenced image absent from the public folder.
type MissingImage struct {
	Path         string
	ReferencedBy []string
}

// Report is the outcome of an audit run.
type Report struct {
	FilesScanned int
	PublicImages int
	References   int
	Missing      []MissingImage
}

// ExtractImagePaths pulls image references out of one source file's content.
func ExtractImagePaths(content string) []string {
	found := map[string]bool{}
	for _, pattern := range refPatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			path := match[1]
			// template strings with interpolation are not static references
			if strings.Contains(path, "${") {
				continue
			}
			found[path] = true
		}
	}

	paths := make([]string, 0, len(found))
	for p := range found {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ScanSource walks srcDir and maps each source file (relative path) to the
// image references it contains.
func ScanSource(srcDir string) (map[string][]string, error) {
	refs := map[string][]string{}

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !SourceExtensions[filepath.Ext(path)] {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("could not read %s: %w", path, err)
		}
		if paths := ExtractImagePaths(string(content)); len(paths) > 0 {
			rel, _ := filepath.Rel(srcDir, path)
			refs[rel] = paths
		}
		return nil
	})

	return refs, err
}

// PublicImages lists all images under publicDir as /-prefixed paths.
func PublicImages(publicDir string) (map[string]bool, error) {
	images := map[string]bool{}
	if _, err := os.Stat(publicDir); os.IsNotExist(err) {
		return images, nil
	}

	err := filepath.WalkDir(publicDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && ImageExtensions[strings.ToLower(filepath.Ext(path))] {
			rel, _ := filepath.Rel(publicDir, path)
			images["/"+filepath.ToSlash(rel)] = true
		}
		return nil
	})
	return images, err
}

// Audit checks every image referenced under <root>/src against <root>/public.
func Audit(projectRoot string) (*Report, error) {
	srcDir := filepath.Join(projectRoot, "src")
	publicDir := filepath.Join(projectRoot, "public")

	if _, err := os.Stat(srcDir); err != nil {
		return nil, fmt.Errorf("source directory not found: %s", srcDir)
	}

	refs, err := ScanSource(srcDir)
	if err != nil {
		return nil, err
	}

	public, err := PublicImages(publicDir)
	if err != nil {
		return nil, err
	}

	allPaths := map[string]bool{}
	for _, paths := range refs {
		for _, p := range paths {
			allPaths[p] = true
		}
	}

	report := &Report{
		FilesScanned: len(refs),
		PublicImages: len(public),
		References:   len(allPaths),
	}

	for path := range allPaths {
		normalized := normalizeRef(path)
		if existsInPublic(publicDir, normalized) {
			continue
		}
		missing := MissingImage{Path: normalized}
		for file, paths := range refs {
			for _, p := range paths {
				if p == path {
					missing.ReferencedBy = append(missing.ReferencedBy, file)
				}
			}
		}
		sort.Strings(missing.ReferencedBy)
		report.Missing = append(report.Missing, missing)
	}

	sort.Slice(report.Missing, func(i, j int) bool {
		return report.Missing[i].Path < report.Missing[j].Path
	})
	return report, nil
}

func normalizeRef(path string) string {
	if strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") {
		return "/" + strings.TrimLeft(path, "./")
	}
	return path
}

func existsInPublic(publicDir, ref string) bool {
	clean := strings.TrimPrefix(ref, "/")
	_, err := os.Stat(filepath.Join(publicDir, filepath.FromSlash(clean)))
	return err == nil
}
