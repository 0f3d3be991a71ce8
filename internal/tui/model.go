package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Assistant is the TUI-facing subset of the assistant service.
type Assistant interface {
	Ask(ctx context.Context, question string) string
	ClearHistory()
}

const greeting = "Hola! He sido entrenada para emular a una consultora experta. " +
	"Pregúntame lo que quieras sobre normativa de convocatorias asociadas a nuestra institución."

const (
	statusLoaded  = "Base de conocimiento cargada exitosamente!"
	statusNoIndex = "No se pudo cargar la base de conocimiento. Por favor, verifica los documentos."
	statusCleared = "Historial limpiado!"
)

// Model is the Bubble Tea model for the terminal chat.
type Model struct {
	assistant Assistant
	input     textinput.Model
	viewport  viewport.Model
	lines     []string
	status    string
	loaded    bool
	ready     bool
}

// New creates a new chat model. loaded reports whether the knowledge base
// holds an index.
func New(assistant Assistant, loaded bool) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Escribe tu pregunta..."
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)

	status := statusLoaded
	if !loaded {
		status = statusNoIndex
	}
	return Model{assistant: assistant, input: ti, viewport: vp, status: status, loaded: loaded}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around transcript and input boxes
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + ih + 1 + 1 // header + status, input frame, help line, spacer
		vh := msg.Height - reserved - ch
		if vh < 3 {
			vh = 3
		}
		vw := msg.Width
		if vw < 20 {
			vw = 20
		}
		m.viewport.Width = vw
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+l":
			m.assistant.ClearHistory()
			m.lines = nil
			m.status = statusCleared
			m.viewport.SetContent(m.renderTranscript())
			return m, nil
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				answer := m.assistant.Ask(context.Background(), q)
				m.lines = append(m.lines,
					userStyle.Render("Usuario:")+" "+q,
					answerStyle.Render("Asistente:")+" "+answer,
				)
				m.input.Reset()
				m.viewport.SetContent(m.renderTranscript())
				m.viewport.GotoBottom()
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Cargando documentos..."
	}
	header := headerStyle.Render("Asistente de convocatorias")
	status := statusOKStyle.Render(m.status)
	if !m.loaded {
		status = statusWarnStyle.Render(m.status)
	}
	transcript := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	help := helpStyle.Render("enter: enviar  ctrl+l: limpiar historial  esc: salir")
	return header + "\n" + status + "\n" + transcript + "\n" + input + "\n" + help
}

func (m Model) renderTranscript() string {
	if len(m.lines) == 0 {
		return greeting
	}
	return strings.Join(m.lines, "\n\n")
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	statusOKStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusWarnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle     = lipgloss.NewStyle().Bold(true)
	chatBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
