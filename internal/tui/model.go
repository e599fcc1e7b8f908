package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"imgsel/internal/domain"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseScanning Phase = iota
	PhaseConfirm
	PhaseExecuting
	PhaseDone
	PhaseError
)

// Messages for the TUI
type (
	ScanProgressMsg struct {
		Current int
		Total   int
	}
	// ScanDoneMsg carries the selected records and those whose target already exists.
	ScanDoneMsg struct {
		Result     domain.ScanResult
		Overwrites []domain.ImageFileRecord
	}
	BatchProgressMsg struct {
		Current int
		Total   int
	}
	BatchDoneMsg struct {
		Result domain.BatchResult
	}
	ConfirmMsg struct{ Confirmed bool }
	ErrorMsg   struct {
		Err error
	}
	tickMsg time.Time
)

// ExecuteBatchFunc starts the copy or move of records.
// It should run the batch in a goroutine and send progress/done messages.
type ExecuteBatchFunc func(records []domain.ImageFileRecord) tea.Cmd

type Config struct {
	SourceDir    string
	TargetDir    string
	Kind         domain.OperationKind
	Verbose      bool
	ExecuteBatch ExecuteBatchFunc
}

type Model struct {
	config           Config
	Phase            Phase
	Scan             domain.ScanResult
	Overwrites       []domain.ImageFileRecord
	Selected         []domain.ImageFileRecord
	Result           domain.BatchResult
	spinner          spinner.Model
	progress         progress.Model
	scanCurrent      int
	scanTotal        int
	batchCurrent     int
	batchTotal       int
	confirmSelection bool // true = yes, false = no
	Err              error
	Quitting         bool
	width            int
	height           int
}

func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:   cfg,
		Phase:    PhaseScanning,
		spinner:  s,
		progress: p,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.Phase == PhaseExecuting && msg.String() == "q" {
				return m, nil
			}
			m.Quitting = true
			return m, tea.Quit
		case "left", "h", "y", "Y":
			if m.Phase == PhaseConfirm {
				m.confirmSelection = true
			}
		case "right", "l", "n", "N":
			if m.Phase == PhaseConfirm {
				m.confirmSelection = false
			}
		case "enter":
			if m.Phase == PhaseConfirm {
				confirmed := m.confirmSelection
				return m, func() tea.Msg {
					return ConfirmMsg{Confirmed: confirmed}
				}
			}
			if m.Phase == PhaseDone || m.Phase == PhaseError {
				return m, tea.Quit
			}
		}

	case ScanProgressMsg:
		m.scanCurrent = msg.Current
		m.scanTotal = msg.Total
		return m, nil

	case ScanDoneMsg:
		m.Scan = msg.Result
		m.Overwrites = msg.Overwrites
		if len(m.Scan.Images) == 0 {
			m.Phase = PhaseDone
			return m, nil
		}
		if len(m.Overwrites) > 0 {
			m.Phase = PhaseConfirm
			return m, nil
		}
		return m.startBatch(m.Scan.Images)

	case ConfirmMsg:
		if msg.Confirmed {
			return m.startBatch(m.Scan.Images)
		}
		return m.startBatch(withoutRecords(m.Scan.Images, m.Overwrites))

	case BatchProgressMsg:
		m.batchCurrent = msg.Current
		m.batchTotal = msg.Total
		return m, nil

	case BatchDoneMsg:
		m.Phase = PhaseDone
		m.Result = msg.Result
		return m, nil

	case ErrorMsg:
		m.Phase = PhaseError
		m.Err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if m.Phase == PhaseScanning || m.Phase == PhaseExecuting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		if m.Phase == PhaseExecuting {
			var cmds []tea.Cmd
			if m.batchTotal > 0 {
				cmds = append(cmds, m.progress.SetPercent(float64(m.batchCurrent)/float64(m.batchTotal)))
			}
			cmds = append(cmds, tickCmd(), m.spinner.Tick)
			return m, tea.Batch(cmds...)
		}
	}

	return m, nil
}

func (m Model) startBatch(records []domain.ImageFileRecord) (tea.Model, tea.Cmd) {
	m.Selected = records
	if len(records) == 0 {
		m.Phase = PhaseDone
		return m, nil
	}
	m.Phase = PhaseExecuting
	m.batchTotal = len(records)
	if m.config.ExecuteBatch != nil {
		return m, tea.Batch(tickCmd(), m.config.ExecuteBatch(records))
	}
	return m, nil
}

func withoutRecords(all, skip []domain.ImageFileRecord) []domain.ImageFileRecord {
	excluded := make(map[string]bool, len(skip))
	for _, r := range skip {
		excluded[r.Path] = true
	}
	out := make([]domain.ImageFileRecord, 0, len(all))
	for _, r := range all {
		if !excluded[r.Path] {
			out = append(out, r)
		}
	}
	return out
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseScanning:
		b.WriteString(m.renderScanning())
	case PhaseConfirm:
		b.WriteString(m.renderPreview())
		b.WriteString("\n")
		b.WriteString(m.renderConfirmPrompt())
	case PhaseExecuting:
		b.WriteString(m.renderPreview())
		b.WriteString("\n")
		b.WriteString(m.renderExecution())
	case PhaseDone:
		b.WriteString(m.renderPreview())
		b.WriteString("\n")
		b.WriteString(m.renderCompletion())
	case PhaseError:
		b.WriteString(m.renderError())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) verb() string {
	if m.config.Kind == domain.OpMove {
		return "Moving"
	}
	return "Copying"
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("🖼  imgsel")
	subtitle := subtitleStyle.Render(fmt.Sprintf("Batch %s of images", m.config.Kind))

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		dimStyle.Render(fmt.Sprintf("%s Source: %s", iconFolder, shortenPath(m.config.SourceDir))),
		dimStyle.Render(fmt.Sprintf("%s Target: %s", iconFolder, shortenPath(m.config.TargetDir))),
	)
}

func (m Model) renderScanning() string {
	if m.scanTotal > 0 {
		percent := float64(m.scanCurrent) / float64(m.scanTotal)
		return fmt.Sprintf("%s Scanning images...\n\n  %s\n  %s %s",
			m.spinner.View(),
			m.progress.ViewAs(percent),
			countStyle.Render(fmt.Sprintf("%d/%d", m.scanCurrent, m.scanTotal)),
			dimStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
		)
	}
	return fmt.Sprintf("%s Scanning images...", m.spinner.View())
}

func (m Model) renderPreview() string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("Images"))
	b.WriteString("\n\n")

	if len(m.Scan.Images) == 0 {
		b.WriteString(dimStyle.Render("  No images found"))
		b.WriteString("\n")
	} else {
		for _, line := range formatFileList(m.Scan.Images, 4) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if len(m.Overwrites) > 0 {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(fmt.Sprintf("%s Override Required (%d files)", iconOverride, len(m.Overwrites))))
		b.WriteString("\n\n")

		for i, record := range m.Overwrites {
			if i >= 4 {
				b.WriteString(fmt.Sprintf("  ... and %d more\n", len(m.Overwrites)-4))
				break
			}
			b.WriteString(fmt.Sprintf("  %s %s\n",
				warningStyle.Render(iconOverride),
				valueStyle.Render(record.Name),
			))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderSummary())
	return b.String()
}

func (m Model) renderSummary() string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("Summary"))
	b.WriteString("\n\n")

	var totalSize int64
	for _, r := range m.Scan.Images {
		totalSize += r.Size
	}

	b.WriteString(fmt.Sprintf("  %s  %s\n", labelStyle.Render("Images found:"), imageStyle.Render(fmt.Sprintf("%s %d", iconImage, m.Scan.TotalCount))))
	b.WriteString(fmt.Sprintf("  %s  %s\n", labelStyle.Render("Total size:"), valueStyle.Render(humanize.Bytes(uint64(totalSize)))))
	b.WriteString(fmt.Sprintf("  %s  %s\n", labelStyle.Render("Scan time:"), dimStyle.Render(fmt.Sprintf("%d ms", m.Scan.ScanTimeMs))))
	if len(m.Overwrites) > 0 {
		b.WriteString(fmt.Sprintf("  %s  %s\n", labelStyle.Render("Overrides:"), warningStyle.Render(fmt.Sprintf("%s %d", iconOverride, len(m.Overwrites)))))
	}

	return b.String()
}

func (m Model) renderConfirmPrompt() string {
	prompt := promptStyle.Render(fmt.Sprintf("Override %d existing files?", len(m.Overwrites)))

	var yesBtn, noBtn string
	if m.confirmSelection {
		yesBtn = yesButtonStyle.Render("Yes")
		noBtn = buttonStyle.Render("No")
	} else {
		yesBtn = buttonStyle.Render("Yes")
		noBtn = noButtonStyle.Render("No")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, yesBtn, "  ", noBtn)
	return lipgloss.JoinVertical(lipgloss.Left, prompt, "", buttons)
}

func (m Model) renderExecution() string {
	var b strings.Builder

	b.WriteString(headingStyle.Render(m.verb() + " Files"))
	b.WriteString("\n\n")

	percent := 0.0
	if m.batchTotal > 0 {
		percent = float64(m.batchCurrent) / float64(m.batchTotal)
	}

	b.WriteString(fmt.Sprintf("  %s %s...\n\n", m.spinner.View(), m.verb()))
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(percent)))

	b.WriteString(fmt.Sprintf("  %s %s\n",
		countStyle.Render(fmt.Sprintf("%d/%d files", m.batchCurrent, m.batchTotal)),
		dimStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))
	return b.String()
}

func (m Model) renderCompletion() string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("Done"))
	b.WriteString("\n\n")

	if len(m.Selected) == 0 {
		b.WriteString(dimStyle.Render("  Nothing to do"))
		b.WriteString("\n")
		return b.String()
	}

	if m.Result.FailedCount == 0 {
		b.WriteString(fmt.Sprintf("  %s %s\n\n", successStyle.Render(iconSuccess), successStyle.Render("All operations succeeded!")))
	} else {
		b.WriteString(fmt.Sprintf("  %s %s\n\n", errorStyle.Render(iconError), errorStyle.Render("Some operations failed")))
	}

	b.WriteString(fmt.Sprintf("  %s  %s\n", labelStyle.Render("Succeeded:"), valueStyle.Render(fmt.Sprintf("%d", m.Result.SuccessCount))))
	b.WriteString(fmt.Sprintf("  %s  %s\n", labelStyle.Render("Failed:"), valueStyle.Render(fmt.Sprintf("%d", m.Result.FailedCount))))

	if skipped := len(m.Scan.Images) - len(m.Selected); skipped > 0 {
		b.WriteString(fmt.Sprintf("  %s  %s\n", labelStyle.Render("Skipped:"), dimStyle.Render(fmt.Sprintf("%s %d (target exists)", iconSkipped, skipped))))
	}

	for i, msg := range m.Result.Errors {
		if i >= 4 && !m.config.Verbose {
			b.WriteString(fmt.Sprintf("  ... and %d more errors\n", len(m.Result.Errors)-4))
			break
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", errorStyle.Render(iconError), msg))
	}
	for _, msg := range m.Result.Warnings {
		b.WriteString(fmt.Sprintf("  %s %s\n", warningStyle.Render(iconOverride), msg))
	}

	return b.String()
}

func (m Model) renderError() string {
	icon := errorStyle.Render(iconError)
	msg := errorStyle.Render(fmt.Sprintf("Error: %s", m.Err.Error()))

	return errorBoxStyle.Render(fmt.Sprintf("%s %s", icon, msg))
}

func (m Model) renderHelp() string {
	var help string
	switch m.Phase {
	case PhaseScanning:
		help = "Press q to quit"
	case PhaseConfirm:
		help = "← → or y/n to select • Enter to confirm • q to quit"
	case PhaseExecuting:
		help = m.verb() + " files... Please wait"
	case PhaseDone:
		help = "Press Enter to exit"
	case PhaseError:
		help = "Press Enter or q to exit"
	}
	return helpStyle.Render(help)
}

// formatFileList shows the first and last few records when the list is long.
func formatFileList(records []domain.ImageFileRecord, maxItems int) []string {
	if len(records) == 0 {
		return []string{}
	}

	lines := make([]string, 0, min(len(records), maxItems+1))
	if len(records) > maxItems {
		half := maxItems / 2
		for i := 0; i < half; i++ {
			lines = append(lines, formatFileItem(records[i]))
		}
		lines = append(lines, dimStyle.Render(fmt.Sprintf("... %d more files ...", len(records)-maxItems)))
		for i := len(records) - half; i < len(records); i++ {
			lines = append(lines, formatFileItem(records[i]))
		}
		return lines
	}
	for _, record := range records {
		lines = append(lines, formatFileItem(record))
	}
	return lines
}

func formatFileItem(record domain.ImageFileRecord) string {
	name := imageStyle.Render(record.Name)
	size := dimStyle.Render(humanize.Bytes(uint64(record.Size)))
	date := dimStyle.Render(record.Modified().Format("2006-01-02 15:04"))
	return fmt.Sprintf("%s %s  %s  %s", iconImage, name, size, date)
}

// shortenPath replaces the home directory prefix with ~ for display
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
