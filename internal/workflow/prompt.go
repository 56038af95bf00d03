package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/modeldrift/internal/models"
)

// ErrCancelled is returned when the prompt is left without finishing
var ErrCancelled = errors.New("prompt cancelled")

// MaxShown is the number of suggestions offered for selection
const MaxShown = 10

type stage int

const (
	stageGoal stage = iota
	stagePick
	stageName
	stageDone
)

var (
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Selection is what the user chose in the prompt
type Selection struct {
	Goal    string
	Methods []string
	Name    string
}

// Model asks for a goal, lets the user pick among suggested methods and
// asks for a workflow name
type Model struct {
	methods     []models.MethodDescriptor
	stage       stage
	goal        textinput.Model
	name        textinput.Model
	suggestions []Suggestion
	cursor      int
	picked      []int
	message     string
}

// NewModel returns a prompt over the registered methods
func NewModel(methods []models.MethodDescriptor) Model {
	goal := textinput.New()
	goal.Placeholder = "Create casefile and share with user"
	goal.CharLimit = 256
	goal.Focus()

	name := textinput.New()
	name.Placeholder = "press Enter for default"
	name.CharLimit = 128

	return Model{methods: methods, goal: goal, name: name}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInput(msg)
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	}

	switch m.stage {
	case stageGoal:
		if key.Type == tea.KeyEnter {
			goal := strings.TrimSpace(m.goal.Value())
			if goal == "" {
				m.message = "No goal provided"
				return m, nil
			}
			m.suggestions = Suggest(goal, m.methods)
			if len(m.suggestions) == 0 {
				m.message = "No matching methods found"
				return m, nil
			}
			if len(m.suggestions) > MaxShown {
				m.suggestions = m.suggestions[:MaxShown]
			}
			m.message = ""
			m.goal.Blur()
			m.stage = stagePick
			return m, nil
		}
	case stagePick:
		switch key.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.suggestions)-1 {
				m.cursor++
			}
		case " ", "x":
			m.toggle(m.cursor)
		case "enter":
			if len(m.picked) == 0 {
				m.message = "Select at least one method"
				return m, nil
			}
			m.message = ""
			m.stage = stageName
			m.name.Focus()
			return m, textinput.Blink
		}
		return m, nil
	case stageName:
		if key.Type == tea.KeyEnter {
			m.stage = stageDone
			return m, tea.Quit
		}
	}
	return m.updateInput(msg)
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.stage {
	case stageGoal:
		m.goal, cmd = m.goal.Update(msg)
	case stageName:
		m.name, cmd = m.name.Update(msg)
	}
	return m, cmd
}

// toggle adds or removes a suggestion, keeping selection order
func (m *Model) toggle(i int) {
	picked := make([]int, 0, len(m.picked)+1)
	found := false
	for _, p := range m.picked {
		if p == i {
			found = true
			continue
		}
		picked = append(picked, p)
	}
	if !found {
		picked = append(picked, i)
	}
	m.picked = picked
}

func (m Model) isPicked(i int) int {
	for j, p := range m.picked {
		if p == i {
			return j + 1
		}
	}
	return 0
}

func (m Model) View() string {
	var b strings.Builder
	switch m.stage {
	case stageGoal:
		b.WriteString("What do you want to achieve?\n")
		b.WriteString(m.goal.View())
		b.WriteString("\n")
	case stagePick:
		fmt.Fprintf(&b, "Found %d matching methods:\n\n", len(m.suggestions))
		for i, s := range m.suggestions {
			pointer := "  "
			if i == m.cursor {
				pointer = cursorStyle.Render("> ")
			}
			mark := "[ ]"
			if n := m.isPicked(i); n > 0 {
				mark = fmt.Sprintf("[%d]", n)
			}
			fmt.Fprintf(&b, "%s%s %s (score: %.1f)\n", pointer, mark, s.Method, s.Score)
			fmt.Fprintf(&b, "       %s\n", s.Description)
		}
		b.WriteString(hintStyle.Render("\nspace: select  enter: continue  esc: quit"))
		b.WriteString("\n")
	case stageName:
		fmt.Fprintf(&b, "Selected methods: %s\n", strings.Join(m.Selection().Methods, ", "))
		b.WriteString("Workflow name: ")
		b.WriteString(m.name.View())
		b.WriteString("\n")
	case stageDone:
		return ""
	}
	if m.message != "" {
		b.WriteString(m.message)
		b.WriteString("\n")
	}
	return b.String()
}

// Done reports whether the prompt was completed
func (m Model) Done() bool {
	return m.stage == stageDone
}

// Selection returns the current choices. An empty name becomes the
// default workflow name.
func (m Model) Selection() Selection {
	sel := Selection{Goal: strings.TrimSpace(m.goal.Value())}
	for _, i := range m.picked {
		sel.Methods = append(sel.Methods, m.suggestions[i].Method)
	}
	sel.Name = strings.TrimSpace(m.name.Value())
	if sel.Name == "" && len(sel.Methods) > 0 {
		sel.Name = DefaultName(sel.Methods)
	}
	return sel
}

// Run shows the prompt and returns the completed selection
func Run(methods []models.MethodDescriptor, opts ...tea.ProgramOption) (Selection, error) {
	final, err := tea.NewProgram(NewModel(methods), opts...).Run()
	if err != nil {
		return Selection{}, fmt.Errorf("failed to run prompt: %w", err)
	}
	m, ok := final.(Model)
	if !ok || !m.Done() {
		return Selection{}, ErrCancelled
	}
	return m.Selection(), nil
}
