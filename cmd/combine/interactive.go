package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/glb-compose/compose"
	"github.com/wippyai/glb-compose/export"
	"github.com/wippyai/glb-compose/storage"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	stageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var stageLabels = map[compose.ProgressStage]string{
	compose.StageValidate: "Validating export",
	compose.StageTree:     "Building transform tree",
	compose.StageFetch:    "Fetching components",
	compose.StageMerge:    "Merging components",
	compose.StageEncode:   "Serializing container",
}

type combineModel struct {
	exportFile string
	filesDir   string
	output     string
	opts       compose.Options

	events  chan tea.Msg
	bar     progress.Model
	stage   compose.ProgressStage
	done    int
	total   int
	result  *compose.CombineResult
	err     error
	written bool
}

type stageMsg struct {
	stage compose.ProgressStage
	done  int
	total int
}

type finishedMsg struct {
	result  *compose.CombineResult
	err     error
	written bool
}

func newCombineModel(exportFile, filesDir, output string, opts compose.Options) *combineModel {
	return &combineModel{
		exportFile: exportFile,
		filesDir:   filesDir,
		output:     output,
		opts:       opts,
		events:     make(chan tea.Msg, 64),
		bar:        progress.New(progress.WithDefaultGradient()),
	}
}

func (m *combineModel) Init() tea.Cmd {
	return tea.Batch(m.startCombine, m.nextEvent)
}

// startCombine runs the whole pipeline in the command goroutine,
// streaming stage updates through the event channel.
func (m *combineModel) startCombine() tea.Msg {
	ctx := context.Background()

	opts := m.opts
	opts.Progress = func(stage compose.ProgressStage, done, total int) {
		m.events <- stageMsg{stage: stage, done: done, total: total}
	}

	data, err := os.ReadFile(m.exportFile)
	if err != nil {
		return finishedMsg{err: err}
	}
	result, err := export.ParseResult(data)
	if err != nil {
		return finishedMsg{err: err}
	}

	res, err := compose.Combine(ctx, result, storage.NewDir(m.filesDir), opts)
	if err != nil {
		return finishedMsg{err: err}
	}

	if err := os.WriteFile(m.output, res.GLB, 0o644); err != nil {
		return finishedMsg{result: res, err: err}
	}
	return finishedMsg{result: res, written: true}
}

func (m *combineModel) nextEvent() tea.Msg {
	return <-m.events
}

func (m *combineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter":
			if m.result != nil || m.err != nil {
				return m, tea.Quit
			}
		}

	case stageMsg:
		m.stage = msg.stage
		m.done = msg.done
		m.total = msg.total
		return m, m.nextEvent

	case finishedMsg:
		m.result = msg.result
		m.err = msg.err
		m.written = msg.written
	}

	return m, nil
}

func (m *combineModel) View() string {
	s := titleStyle.Render("GLB Combine") + "\n\n"
	s += fmt.Sprintf("Export: %s\n", m.exportFile)
	s += fmt.Sprintf("Files:  %s\n\n", m.filesDir)

	if m.err != nil {
		s += errorStyle.Render("Error: "+m.err.Error()) + "\n\n"
		s += helpStyle.Render("enter/q: quit")
		return s
	}

	if m.result != nil {
		s += resultStyle.Render("Combine complete") + "\n\n"
		s += fmt.Sprintf("Components combined: %d\n", m.result.Summary.ComponentsCombined)
		s += fmt.Sprintf("Output size: %s\n", m.result.Summary.OutputSizeFormatted)
		if m.written {
			s += fmt.Sprintf("Written to: %s\n", m.output)
		}
		for _, w := range m.result.Summary.Warnings {
			s += warnStyle.Render("Warning: "+w) + "\n"
		}
		s += "\n" + helpStyle.Render("enter/q: quit")
		return s
	}

	label := stageLabels[m.stage]
	if label == "" {
		label = "Starting"
	}
	s += stageStyle.Render(label) + "\n"
	percent := 0.0
	if m.total > 0 {
		percent = float64(m.done) / float64(m.total)
	}
	s += m.bar.ViewAs(percent) + "\n\n"
	s += helpStyle.Render("q: abort")
	return s
}

func runInteractive(exportFile, filesDir, output string, opts compose.Options) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal")
	}

	p := tea.NewProgram(newCombineModel(exportFile, filesDir, output, opts))
	_, err := p.Run()
	return err
}
