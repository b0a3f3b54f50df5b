package formatter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/sonata/internal/models"
	"github.com/desertthunder/sonata/internal/shared"
	th "github.com/desertthunder/sonata/internal/testing"
	"gopkg.in/yaml.v3"
)

func testSection() Section {
	return Section{
		Name:  "popular",
		Title: "Popular right now",
		Songs: []models.Song{
			{
				ID:         "song1",
				Title:      "Clair de Lune",
				ArtistName: "Claude Debussy",
				AlbumTitle: "Suite bergamasque",
				Duration:   300,
				PlayCount:  42,
				AudioURL:   "https://cdn.example.com/1.mp3",
				Favorite:   true,
			},
			{
				ID:         "song2",
				Title:      "Gymnopédie No. 1",
				ArtistName: "Erik Satie",
				Duration:   185,
				AudioURL:   "https://cdn.example.com/2.mp3",
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"csv", FormatCSV},
		{"MD", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"text", FormatText},
		{" txt ", FormatText},
		{"yml", FormatYAML},
		{"json", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testSection())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Title,Artist,Album,Duration,Plays,Audio URL") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "song1,Clair de Lune,Claude Debussy,Suite bergamasque,300,42,") {
			t.Errorf("CSV missing song1 record, got: %s", output)
		}
		if lines := strings.Count(output, "\n"); lines != 3 {
			t.Errorf("expected 3 lines, got %d", lines)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("without cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(testSection(), "")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			if !strings.HasPrefix(output, "# Popular right now\n") {
				t.Errorf("markdown missing heading, got: %s", output)
			}
			if strings.Contains(output, "![Cover]") {
				t.Error("markdown should not have a cover")
			}
			if !strings.Contains(output, "1. Claude Debussy - Clair de Lune (Suite bergamasque) [5:00] ★") {
				t.Errorf("markdown missing first song, got: %s", output)
			}
			if !strings.Contains(output, "2. Erik Satie - Gymnopédie No. 1 [3:05]\n") {
				t.Errorf("markdown missing second song, got: %s", output)
			}
		})

		t.Run("with cover image", func(t *testing.T) {
			data, _ := ExportToMarkdown(testSection(), "cover.jpg")
			if !strings.Contains(string(data), "![Cover](cover.jpg)") {
				t.Error("markdown missing cover reference")
			}
		})

		t.Run("falls back to name", func(t *testing.T) {
			data, _ := ExportToMarkdown(Section{Name: "top"}, "")
			if !strings.HasPrefix(string(data), "# top\n") {
				t.Errorf("expected name heading, got %s", data)
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testSection())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Songs: 2") {
			t.Errorf("text missing count, got: %s", output)
		}
		if !strings.Contains(output, "2. Erik Satie - Gymnopédie No. 1") {
			t.Errorf("text missing song, got: %s", output)
		}
	})

	t.Run("ExportToYAML", func(t *testing.T) {
		data, err := ExportToYAML(testSection())
		if err != nil {
			t.Fatalf("ExportToYAML failed: %v", err)
		}

		var doc struct {
			Section string        `yaml:"section"`
			Count   int           `yaml:"count"`
			Songs   []models.Song `yaml:"songs"`
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			t.Fatalf("invalid YAML: %v\n%s", err, data)
		}
		if doc.Section != "popular" || doc.Count != 2 {
			t.Errorf("unexpected header %+v", doc)
		}
		if doc.Songs[1].ArtistName != "Erik Satie" {
			t.Errorf("unexpected song %+v", doc.Songs[1])
		}
		if !strings.Contains(string(data), "artist: Claude Debussy") {
			t.Errorf("expected yaml artist key, got:\n%s", data)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(Section{Name: "empty"})
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if songs, ok := doc["songs"].([]any); !ok || len(songs) != 0 {
			t.Errorf("expected empty songs array, got %v", doc["songs"])
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(context.Background(), nil, ""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("Status Error", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		if _, err := DownloadImage(context.Background(), nil, server.URL); err == nil {
			t.Error("expected error for 404")
		}
	})
}

func TestWriteExport(t *testing.T) {
	ctx := context.Background()

	t.Run("CSV", func(t *testing.T) {
		dir := t.TempDir()
		result, err := WriteExport(ctx, testSection(), Options{Dir: dir, Format: FormatCSV})
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		if len(result.Files) != 2 {
			t.Fatalf("expected 2 files, got %v", result.Files)
		}
		th.AssertFileExists(t, filepath.Join(dir, "popular.csv"))
		meta := th.MustReadFile(t, filepath.Join(dir, "popular_metadata.json"))
		if !strings.Contains(meta, `"count": 2`) {
			t.Errorf("metadata missing count: %s", meta)
		}
	})

	t.Run("Markdown With Cover", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpegdata"))
		}))
		defer server.Close()

		section := testSection()
		section.Songs[1].CoverURL = server.URL + "/cover.jpg"

		dir := t.TempDir()
		result, err := WriteExport(ctx, section, Options{Dir: dir, Format: FormatMarkdown, Cover: true})
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		if result.CoverImage != filepath.Join(dir, "popular", "cover.jpg") {
			t.Errorf("unexpected cover path %s", result.CoverImage)
		}
		readme := th.MustReadFile(t, filepath.Join(dir, "popular", "README.md"))
		if !strings.Contains(readme, "![Cover](cover.jpg)") {
			t.Errorf("README missing cover, got %s", readme)
		}
	})

	t.Run("Markdown Cover Failure Is Not Fatal", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		section := testSection()
		section.Songs[0].CoverURL = server.URL

		dir := t.TempDir()
		result, err := WriteExport(ctx, section, Options{
			Dir: dir, Format: FormatMarkdown, Cover: true, Logger: shared.NewLogger(&strings.Builder{}),
		})
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if result.CoverImage != "" || len(result.Files) != 1 {
			t.Errorf("expected only README, got %v", result.Files)
		}
	})

	t.Run("Text YAML and JSON", func(t *testing.T) {
		dir := t.TempDir()
		for format, file := range map[Format]string{FormatText: "popular.txt", FormatYAML: "popular.yaml", FormatJSON: "popular.json"} {
			if _, err := WriteExport(ctx, testSection(), Options{Dir: dir, Format: format}); err != nil {
				t.Fatalf("%s: %v", format, err)
			}
			th.AssertFileExists(t, filepath.Join(dir, file))
		}
	})

	t.Run("Creates Directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "out")
		if _, err := WriteExport(ctx, testSection(), Options{Dir: dir, Format: FormatText}); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("expected directory to be created: %v", err)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		if _, err := WriteExport(ctx, Section{}, Options{Format: FormatCSV}); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if _, err := WriteExport(ctx, testSection(), Options{Dir: t.TempDir(), Format: "xml"}); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}
