// package formatter exports song lists to files (CSV, Markdown, plain text, YAML, JSON)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonata/internal/models"
	"github.com/desertthunder/sonata/internal/shared"
	"gopkg.in/yaml.v3"
)

// Format is an export file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatYAML, FormatJSON}

// ParseFormat accepts a format name or a common alias (md, text, yml).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// Section is a named list of songs, such as one home feed list.
type Section struct {
	Name  string // file-safe name, e.g. "recommended"
	Title string // heading, e.g. "Recommended for you"
	Songs []models.Song
}

func (s Section) heading() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}

// ExportToCSV writes songs with columns: ID, Title, Artist, Album, Duration, Plays, Audio URL
func ExportToCSV(section Section) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "Plays", "Audio URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range section.Songs {
		record := []string{
			song.ID,
			song.Title,
			song.ArtistName,
			song.AlbumTitle,
			strconv.Itoa(song.Duration),
			strconv.Itoa(song.PlayCount),
			song.AudioURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a section as a numbered list with an optional cover image
func ExportToMarkdown(section Section, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", section.heading())

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	fmt.Fprintf(&buf, "**Songs**: %d\n\n", len(section.Songs))

	buf.WriteString("## Songs\n\n")
	for i, song := range section.Songs {
		album := ""
		if song.AlbumTitle != "" {
			album = fmt.Sprintf(" (%s)", song.AlbumTitle)
		}
		star := ""
		if song.Favorite {
			star = " ★"
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]%s\n", i+1, song.ArtistName, song.Title, album,
			shared.FormatClock(float64(song.Duration)), star)
	}

	return buf.Bytes(), nil
}

// ExportToText renders a section as plain text
func ExportToText(section Section) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", section.heading())
	fmt.Fprintf(&buf, "Songs: %d\n\n", len(section.Songs))

	for i, song := range section.Songs {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, song.ArtistName, song.Title)
	}

	return buf.Bytes(), nil
}

type document struct {
	Section  string        `json:"section" yaml:"section"`
	Title    string        `json:"title,omitempty" yaml:"title,omitempty"`
	Exported time.Time     `json:"exported_at" yaml:"exported_at"`
	Count    int           `json:"count" yaml:"count"`
	Songs    []models.Song `json:"songs" yaml:"songs"`
}

func newDocument(section Section, now time.Time) document {
	songs := section.Songs
	if songs == nil {
		songs = []models.Song{}
	}
	return document{Section: section.Name, Title: section.Title, Exported: now.UTC(), Count: len(songs), Songs: songs}
}

// ExportToYAML renders a section as a YAML document
func ExportToYAML(section Section) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(newDocument(section, time.Now())); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToJSON renders a section as indented JSON
func ExportToJSON(section Section) ([]byte, error) {
	data, err := json.MarshalIndent(newDocument(section, time.Now()), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ExportResult lists the files written for one section
type ExportResult struct {
	Section    string
	Format     Format
	Files      []string
	CoverImage string
}

// Options controls [WriteExport].
type Options struct {
	Dir    string
	Format Format
	// Cover enables downloading the first song's cover for Markdown exports.
	Cover  bool
	Client *http.Client
	Logger *log.Logger
}

// WriteExport writes section under opts.Dir in opts.Format.
//
// CSV writes {name}.csv plus {name}_metadata.json; Markdown writes {name}/README.md and
// optionally {name}/cover.jpg; the other formats write a single {name}.{ext}.
func WriteExport(ctx context.Context, section Section, opts Options) (*ExportResult, error) {
	if section.Name == "" {
		return nil, fmt.Errorf("%w: section name is required", shared.ErrMissingArgument)
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &ExportResult{Section: section.Name, Format: opts.Format, Files: []string{}}
	base := filepath.Join(opts.Dir, section.Name)

	switch opts.Format {
	case FormatCSV:
		data, err := ExportToCSV(section)
		if err != nil {
			return nil, fmt.Errorf("failed to generate CSV: %w", err)
		}
		if err := writeFile(result, base+".csv", data); err != nil {
			return nil, err
		}

		meta, err := json.MarshalIndent(map[string]any{
			"section":     section.Name,
			"title":       section.Title,
			"count":       len(section.Songs),
			"exported_at": time.Now().UTC(),
		}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
		}
		if err := writeFile(result, base+"_metadata.json", meta); err != nil {
			return nil, err
		}
	case FormatMarkdown:
		if err := os.MkdirAll(base, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}

		var cover string
		if opts.Cover {
			cover = writeCover(ctx, section, base, opts, result)
		}

		data, err := ExportToMarkdown(section, cover)
		if err != nil {
			return nil, fmt.Errorf("failed to generate Markdown: %w", err)
		}
		if err := writeFile(result, filepath.Join(base, "README.md"), data); err != nil {
			return nil, err
		}
	case FormatText:
		data, err := ExportToText(section)
		if err != nil {
			return nil, fmt.Errorf("failed to generate text: %w", err)
		}
		if err := writeFile(result, base+".txt", data); err != nil {
			return nil, err
		}
	case FormatYAML:
		data, err := ExportToYAML(section)
		if err != nil {
			return nil, err
		}
		if err := writeFile(result, base+".yaml", data); err != nil {
			return nil, err
		}
	case FormatJSON:
		data, err := ExportToJSON(section)
		if err != nil {
			return nil, err
		}
		if err := writeFile(result, base+".json", data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, opts.Format)
	}

	return result, nil
}

// writeCover saves the first available cover image and returns its file name, or "" on failure.
func writeCover(ctx context.Context, section Section, dir string, opts Options, result *ExportResult) string {
	var url string
	for _, s := range section.Songs {
		if s.CoverURL != "" {
			url = s.CoverURL
			break
		}
	}
	if url == "" {
		return ""
	}

	data, err := DownloadImage(ctx, opts.Client, url)
	if err != nil {
		opts.Logger.Warn("failed to download cover image", "section", section.Name, "error", err)
		return ""
	}

	path := filepath.Join(dir, "cover.jpg")
	if err := os.WriteFile(path, data, 0644); err != nil {
		opts.Logger.Warn("failed to save cover image", "path", path, "error", err)
		return ""
	}
	result.CoverImage = path
	result.Files = append(result.Files, path)
	return "cover.jpg"
}

func writeFile(result *ExportResult, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	result.Files = append(result.Files, path)
	return nil
}
