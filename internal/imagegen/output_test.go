package imagegen

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{path: "out.png", want: "png"},
		{path: "out.webp", want: "webp"},
		{path: "out.jpg", want: "jpeg"},
		{path: "out.JPEG", want: "jpeg"},
		{path: "out.bmp", wantErr: true},
		{path: "out", wantErr: true},
	}

	for _, tc := range tests {
		got, err := OutputFormat(tc.path)
		if (err != nil) != tc.wantErr {
			t.Errorf("OutputFormat(%q) error = %v, wantErr %v", tc.path, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("OutputFormat(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestSaveSingleImage(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "pic.png")
	img := base64.StdEncoding.EncodeToString([]byte("png-bytes"))

	saved, err := SaveImages([]string{img}, out)
	if err != nil {
		t.Fatalf("SaveImages: %v", err)
	}
	if len(saved) != 1 || saved[0] != out {
		t.Fatalf("saved = %v", saved)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("content = %q", data)
	}
}

func TestSaveMultipleImagesNumbered(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "pic.webp")
	imgs := []string{
		base64.StdEncoding.EncodeToString([]byte("one")),
		base64.StdEncoding.EncodeToString([]byte("two")),
	}

	saved, err := SaveImages(imgs, out)
	if err != nil {
		t.Fatalf("SaveImages: %v", err)
	}

	want := []string{
		filepath.Join(dir, "pic_1.webp"),
		filepath.Join(dir, "pic_2.webp"),
	}
	for i, path := range want {
		if saved[i] != path {
			t.Errorf("saved[%d] = %q, want %q", i, saved[i], path)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s: %v", path, err)
		}
	}
}

func TestSaveRejectsBadBase64(t *testing.T) {
	dir := t.TempDir()
	if _, err := SaveImages([]string{"not base64!!"}, filepath.Join(dir, "x.png")); err == nil {
		t.Fatal("want error for invalid base64")
	}
}
