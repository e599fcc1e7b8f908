package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"imgsel/internal/domain"
)

type Printer struct {
	Writer  io.Writer
	Verbose bool
	JSON    bool
}

func (p Printer) PrintScan(result domain.ScanResult) error {
	if p.JSON {
		return p.printJSON(result)
	}

	fmt.Fprintf(p.Writer, "Found %s images in %d ms.\n", humanize.Comma(int64(result.TotalCount)), result.ScanTimeMs)
	if len(result.Images) == 0 {
		return nil
	}
	fmt.Fprintln(p.Writer)

	lines := formatRecordLines(result.Images)
	if !p.Verbose {
		lines = truncate(lines)
	}
	for _, line := range lines {
		fmt.Fprintln(p.Writer, line)
	}
	return nil
}

func (p Printer) PrintMetadata(path string, meta domain.ImageMetadata) error {
	if p.JSON {
		return p.printJSON(meta)
	}

	fmt.Fprintln(p.Writer, path)
	fmt.Fprintf(p.Writer, "  Dimensions: %dx%d\n", meta.Width, meta.Height)
	fmt.Fprintf(p.Writer, "  Format:     %s\n", meta.Format)
	fmt.Fprintf(p.Writer, "  Color:      %s\n", meta.ColorType)
	fmt.Fprintf(p.Writer, "  Size:       %s\n", humanize.Bytes(uint64(meta.FileSize)))
	if meta.TakenAt != nil {
		fmt.Fprintf(p.Writer, "  Taken:      %s (%s)\n", meta.TakenAt.Format("2006-01-02 15:04"), humanize.Time(*meta.TakenAt))
	}
	if meta.CameraModel != "" {
		fmt.Fprintf(p.Writer, "  Camera:     %s\n", meta.CameraModel)
	}
	return nil
}

func (p Printer) PrintBatch(kind domain.OperationKind, result domain.BatchResult) error {
	if p.JSON {
		return p.printJSON(result)
	}

	fmt.Fprintln(p.Writer, batchSummaryLine(kind, result))
	if len(result.Errors) > 0 {
		fmt.Fprintln(p.Writer)
		fmt.Fprintln(p.Writer, "Errors:")
		for _, msg := range result.Errors {
			fmt.Fprintln(p.Writer, "- "+msg)
		}
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(p.Writer)
		fmt.Fprintln(p.Writer, "Warnings:")
		for _, msg := range result.Warnings {
			fmt.Fprintln(p.Writer, "- "+msg)
		}
	}
	return nil
}

// PrintOverwrites lists the records whose targets already exist.
func (p Printer) PrintOverwrites(records []domain.ImageFileRecord) {
	fmt.Fprintln(p.Writer, "Override Required:")
	for _, record := range records {
		fmt.Fprintln(p.Writer, record.Name)
	}
	fmt.Fprintln(p.Writer)
}

func (p Printer) printJSON(v any) error {
	enc := json.NewEncoder(p.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func batchSummaryLine(kind domain.OperationKind, result domain.BatchResult) string {
	verb := "Copied"
	if kind == domain.OpMove {
		verb = "Moved"
	}
	noun := "files"
	if result.SuccessCount == 1 {
		noun = "file"
	}
	if result.FailedCount == 0 {
		return fmt.Sprintf("%s %d %s.", verb, result.SuccessCount, noun)
	}
	return fmt.Sprintf("%s %d %s, %d failed.", verb, result.SuccessCount, noun, result.FailedCount)
}

func formatRecordLines(records []domain.ImageFileRecord) []string {
	lines := make([]string, 0, len(records))
	for _, record := range records {
		date := record.Modified().Format("2006-01-02 15:04")
		lines = append(lines, fmt.Sprintf("%s  %s  %s", record.Name, humanize.Bytes(uint64(record.Size)), date))
	}
	return lines
}

func truncate(lines []string) []string {
	if len(lines) <= 4 {
		return lines
	}
	head := lines[:2:2]
	tail := lines[len(lines)-2:]
	return append(append(head, "..."), tail...)
}

func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
