package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fbkclanna/shelf/internal/release"
	"golang.org/x/term"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

var errAborted = errors.New("user aborted")

// isInteractive reports whether prompts can be shown.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// --- selectModel: bubbletea model for picking one option from a list ---

type selectModel struct {
	title   string
	options []string
	cursor  int
	done    bool
	aborted bool
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		case "up", "k", "shift+tab":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j", "tab":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")
	for i, opt := range m.options {
		if i == m.cursor {
			b.WriteString("> " + selectedStyle.Render(opt) + "\n")
		} else {
			b.WriteString("  " + opt + "\n")
		}
	}
	b.WriteString(hintStyle.Render("↑/↓ to move, enter to select, esc to cancel") + "\n")
	return b.String()
}

// --- inputModel: bubbletea model for text input with validation ---

type inputModel struct {
	textInput textinput.Model
	title     string
	validate  func(string) error
	errMsg    string
	done      bool
	aborted   bool
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			val := m.textInput.Value()
			if m.validate != nil {
				if err := m.validate(val); err != nil {
					m.errMsg = err.Error()
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		}
	}
	m.errMsg = ""
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")
	b.WriteString(m.textInput.View() + "\n")
	if m.errMsg != "" {
		b.WriteString(errStyle.Render(m.errMsg) + "\n")
	}
	return b.String()
}

// --- confirmModel: bubbletea model for yes/no confirmation ---

type confirmModel struct {
	title   string
	value   bool
	done    bool
	aborted bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		case "y", "Y":
			m.value = true
			m.done = true
			return m, tea.Quit
		case "n", "N":
			m.value = false
			m.done = true
			return m, tea.Quit
		case "left", "right", "tab", "h", "l":
			m.value = !m.value
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	yes := " Yes "
	no := " No "
	if m.value {
		yes = selectedStyle.Render(" Yes ")
	} else {
		no = selectedStyle.Render(" No ")
	}
	return fmt.Sprintf("%s %s / %s\n", titleStyle.Render(m.title), yes, no)
}

// --- prompt helpers ---

func promptSelect(title string, options []string) (int, error) {
	result, err := tea.NewProgram(selectModel{title: title, options: options}).Run()
	if err != nil {
		return 0, err
	}
	rm := result.(selectModel)
	if rm.aborted {
		return 0, errAborted
	}
	return rm.cursor, nil
}

func promptInput(title, placeholder string, validate func(string) error) (string, error) {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	m := inputModel{
		textInput: ti,
		title:     title,
		validate:  validate,
	}

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", err
	}
	rm := result.(inputModel)
	if rm.aborted {
		return "", errAborted
	}
	return rm.textInput.Value(), nil
}

func promptConfirm(title string) (bool, error) {
	m := confirmModel{
		title: title,
		value: true,
	}

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return false, err
	}
	rm := result.(confirmModel)
	if rm.aborted {
		return false, errAborted
	}
	return rm.value, nil
}

const customOption = "custom…"

// bumpOptions labels each named bump kind with the version it produces.
// Kinds that cannot be applied to current are left out.
func bumpOptions(current string) (labels, kinds []string) {
	for _, kind := range release.Kinds {
		next, err := release.Bump(current, kind)
		if err != nil {
			continue
		}
		labels = append(labels, fmt.Sprintf("%-5s %s", kind, next))
		kinds = append(kinds, kind)
	}
	labels = append(labels, customOption)
	kinds = append(kinds, "")
	return labels, kinds
}

// promptBump asks for the bump kind or an explicit version for a package.
func promptBump(name, current string) (string, error) {
	labels, kinds := bumpOptions(current)
	i, err := promptSelect(fmt.Sprintf("Bump %s (currently %s)", name, current), labels)
	if err != nil {
		return "", err
	}
	if kinds[i] != "" {
		return kinds[i], nil
	}
	v, err := promptInput("New version", current, release.Validate)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}
