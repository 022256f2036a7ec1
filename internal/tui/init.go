// ABOUTME: Interactive TUI wizard for initializing a project directory.
// ABOUTME: 3-step bubbletea model collecting base URL, API version, and source file.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultAPIVersion is pre-filled for the API version step.
const DefaultAPIVersion = "wp/v2"

// DefaultFile is pre-filled for the source file step.
const DefaultFile = "README.md"

// Step represents the current wizard step.
type Step int

const (
	StepBaseURL Step = iota
	StepAPIVersion
	StepFile
	StepProbing
	StepDone
	StepFailed
)

// probeResultMsg carries the result of an async site probe.
type probeResultMsg struct {
	err error
}

// ProbeFn is the function signature for base URL validation.
type ProbeFn func(ctx context.Context, baseURL string) error

// cancelHolder shares a cancel function across bubbletea model copies.
// This MUST be stored as a pointer field on InitModel so that value-receiver
// methods (required by tea.Model) can store the cancel func and have it
// visible to all copies of the model.
type cancelHolder struct {
	cancel context.CancelFunc
}

// InitModel is the bubbletea model for the init wizard.
type InitModel struct {
	step     Step
	inputs   [3]textinput.Model
	spinner  spinner.Model
	probeFn  ProbeFn
	cancel   *cancelHolder
	probeErr error
	quitting bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewInitModel creates an init wizard model, pre-filling with existing
// configuration values when the project is being re-initialized.
func NewInitModel(baseURL, apiVersion, file string) InitModel {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://www.example.com/wp-json"
	urlInput.Focus()
	urlInput.Width = 50
	if baseURL != "" {
		urlInput.SetValue(baseURL)
	}

	versionInput := textinput.New()
	versionInput.Placeholder = DefaultAPIVersion
	versionInput.Width = 50
	if apiVersion != "" {
		versionInput.SetValue(apiVersion)
	}

	fileInput := textinput.New()
	fileInput.Placeholder = DefaultFile
	fileInput.Width = 50
	if file != "" {
		fileInput.SetValue(file)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	return InitModel{
		step:    StepBaseURL,
		inputs:  [3]textinput.Model{urlInput, versionInput, fileInput},
		spinner: s,
		probeFn: ProbeSite,
		cancel:  &cancelHolder{},
	}
}

// Init implements tea.Model.
func (m InitModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m InitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancel.cancel != nil {
				m.cancel.cancel()
			}
			return m, tea.Quit
		}

		switch m.step {
		case StepBaseURL, StepAPIVersion, StepFile:
			return m.updateInput(msg)
		case StepFailed:
			return m.updateFailed(msg)
		}

	case probeResultMsg:
		m.cancel.cancel = nil
		if msg.err == nil {
			m.step = StepDone
			return m, tea.Quit
		}
		m.probeErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepProbing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m InitModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		idx := int(m.step)

		// Base URL is required; version and file get defaults when left empty.
		if m.step == StepBaseURL {
			val := strings.TrimRight(m.inputs[0].Value(), "/")
			if val == "" {
				return m, nil
			}
			m.inputs[0].SetValue(val)
		}
		if m.step == StepAPIVersion && m.inputs[1].Value() == "" {
			m.inputs[1].SetValue(DefaultAPIVersion)
		}
		if m.step == StepFile && m.inputs[2].Value() == "" {
			m.inputs[2].SetValue(DefaultFile)
		}

		m.inputs[idx].Blur()

		switch m.step {
		case StepBaseURL:
			m.step = StepAPIVersion
			m.inputs[1].Focus()
			return m, textinput.Blink
		case StepAPIVersion:
			m.step = StepFile
			m.inputs[2].Focus()
			return m, textinput.Blink
		case StepFile:
			m.step = StepProbing
			return m, tea.Batch(m.startProbe(), m.spinner.Tick)
		}
	}

	// Forward to the active input
	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m InitModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes {
		switch msg.Runes[0] {
		case 'r':
			m.step = StepProbing
			m.probeErr = nil
			return m, tea.Batch(m.startProbe(), m.spinner.Tick)
		case 's':
			m.step = StepDone
			return m, tea.Quit
		case 'q':
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m InitModel) startProbe() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel.cancel = cancel
	baseURL := m.inputs[0].Value()
	fn := m.probeFn
	return func() tea.Msg {
		return probeResultMsg{err: fn(ctx, baseURL)}
	}
}

// View implements tea.Model.
func (m InitModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("wpbridge - Project setup"))
	b.WriteString("\n\n")
	b.WriteString("Bind this directory to a site and a source document.\n\n")

	switch m.step {
	case StepBaseURL:
		b.WriteString(stepStyle.Render("Step 1 of 3: Base API URL (required)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")

	case StepAPIVersion:
		b.WriteString(fmt.Sprintf("  Base URL: %s\n\n", m.inputs[0].Value()))
		b.WriteString(stepStyle.Render("Step 2 of 3: API version"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(press Enter for " + DefaultAPIVersion + ")"))
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")

	case StepFile:
		b.WriteString(fmt.Sprintf("  Base URL: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  API version: %s\n\n", m.inputs[1].Value()))
		b.WriteString(stepStyle.Render("Step 3 of 3: Source file"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(press Enter for " + DefaultFile + ")"))
		b.WriteString("\n")
		b.WriteString(m.inputs[2].View())
		b.WriteString("\n")

	case StepProbing:
		b.WriteString(fmt.Sprintf("  Base URL: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  API version: %s\n", m.inputs[1].Value()))
		b.WriteString(fmt.Sprintf("  Source file: %s\n\n", m.inputs[2].Value()))
		b.WriteString(m.spinner.View())
		b.WriteString(" Checking site...")
		b.WriteString("\n")

	case StepDone:
		b.WriteString(successStyle.Render("✓ Site reachable"))
		b.WriteString("\n")

	case StepFailed:
		errMsg := "unknown error"
		if m.probeErr != nil {
			errMsg = m.probeErr.Error()
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ Site check failed: %s", errMsg)))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [s]ave anyway  [q]uit"))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the entered values.
func (m InitModel) Result() (baseURL, apiVersion, file string) {
	return m.inputs[0].Value(), m.inputs[1].Value(), m.inputs[2].Value()
}

// ShouldSave returns true if the wizard completed (via probe success or
// "save anyway") and the user did not cancel with Ctrl+C, Escape, or 'q'.
func (m InitModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
