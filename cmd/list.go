/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"
	"github.com/jfmyers9/play/internal/catalog"
	"github.com/jfmyers9/play/internal/config"
	"github.com/jfmyers9/play/internal/tags"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

const defaultListFormat = "{{.Rel}}"

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [terms...]",
	Short: "Print audio files matching the search terms",
	Long: `Search the music directory like play does and print the matches,
one per line, without prompting or starting a player.

The output format is a Go template. Available fields:
  .Path .Rel .Name .Size .HumanSize .Artist .Title .Album .Track

Tag fields are read from the file only when the template uses them.

Exit codes:
  0 - At least one file matched
  1 - No file matched
  2 - Music directory missing or unreadable`,
	Args: cobra.MinimumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("format", "f", defaultListFormat, "Output format template")
	listCmd.Flags().Int("width", 0, "Fixed output width (0=disabled)")
}

func runList(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.LogFile, cfg.LogLevel)

	pattern, err := catalog.NewPattern(args...)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	width, _ := cmd.Flags().GetInt("width")

	mode := catalog.ModeNarrow
	if cfg.Wide {
		mode = catalog.ModeWide
	}

	cat := catalog.New(cfg.Root, cfg.Extensions, logger)
	return listFiles(cmd.OutOrStdout(), cat, pattern, mode, format, width)
}

// listFiles searches the catalog and writes one formatted line per match
func listFiles(w io.Writer, cat *catalog.Catalog, pattern catalog.Pattern, mode catalog.Mode, format string, width int) error {
	tmpl, err := template.New("output").Parse(format)
	if err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	files, err := cat.Search(pattern, mode)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errNoMatches
	}

	for _, f := range files {
		line, err := formatEntry(&listItem{Entry: f}, tmpl)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		if width > 0 {
			line = padToWidth(line, width)
		}
		fmt.Fprintln(w, line)
	}

	return nil
}

// listItem is the template data for one listed file
type listItem struct {
	catalog.Entry

	info *tags.Info
	read bool
}

// tagInfo reads the file's tags once
func (i *listItem) tagInfo() *tags.Info {
	if !i.read {
		i.read = true
		i.info, _ = tags.Read(i.Path)
	}
	if i.info == nil {
		return &tags.Info{}
	}
	return i.info
}

func (i *listItem) Artist() string    { return i.tagInfo().Artist }
func (i *listItem) Title() string     { return i.tagInfo().Title }
func (i *listItem) Album() string     { return i.tagInfo().Album }
func (i *listItem) Track() int        { return i.tagInfo().Track }
func (i *listItem) HumanSize() string { return humanize.Bytes(uint64(i.Size)) }

// formatEntry applies the template to one listed file
func formatEntry(item *listItem, tmpl *template.Template) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, item); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}

	return buf.String(), nil
}

// padToWidth pads or truncates text to a fixed display width.
// Width is measured in display columns, accounting for Unicode characters.
// If width <= 0, returns text unchanged.
// If text is longer than width, truncates with "..." suffix.
// If text is shorter than width, pads with spaces.
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text // no padding requested
	}

	currentWidth := runewidth.StringWidth(text)

	if currentWidth > width {
		ellipsis := "..."
		ellipsisWidth := runewidth.StringWidth(ellipsis)

		if width <= ellipsisWidth {
			// If width is too small, just return ellipsis truncated to width
			return runewidth.Truncate(ellipsis, width, "")
		}

		truncated := runewidth.Truncate(text, width-ellipsisWidth, "")
		result := truncated + ellipsis

		// Wide runes can leave the result one column short
		resultWidth := runewidth.StringWidth(result)
		if resultWidth < width {
			return result + strings.Repeat(" ", width-resultWidth)
		}
		return result
	} else if currentWidth < width {
		return text + strings.Repeat(" ", width-currentWidth)
	}

	return text // exactly the right width
}
