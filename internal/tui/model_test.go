package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeAssistant struct {
	answer    string
	questions []string
	cleared   int
}

func (f *fakeAssistant) Ask(ctx context.Context, question string) string {
	f.questions = append(f.questions, question)
	return f.answer
}

func (f *fakeAssistant) ClearHistory() {
	f.cleared++
}

func TestNew(t *testing.T) {
	m := New(&fakeAssistant{}, true)

	if !m.input.Focused() {
		t.Error("New() input should be focused")
	}
	if m.status != statusLoaded {
		t.Errorf("New() status = %v, want %v", m.status, statusLoaded)
	}
}

func TestNew_EmptyKnowledgeBase(t *testing.T) {
	m := New(&fakeAssistant{}, false)

	if m.status != statusNoIndex {
		t.Errorf("New() status = %v, want %v", m.status, statusNoIndex)
	}
}

func TestModel_AskFlow(t *testing.T) {
	fake := &fakeAssistant{answer: "El plazo es de quince días."}
	m := New(fake, true)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	m.input.SetValue("¿Cuál es el plazo?")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if len(fake.questions) != 1 || fake.questions[0] != "¿Cuál es el plazo?" {
		t.Errorf("Update() questions = %v, want the submitted question", fake.questions)
	}
	transcript := m.renderTranscript()
	if !strings.Contains(transcript, "Usuario:") || !strings.Contains(transcript, "¿Cuál es el plazo?") {
		t.Errorf("renderTranscript() = %v, want the question", transcript)
	}
	if !strings.Contains(transcript, "Asistente:") || !strings.Contains(transcript, "El plazo es de quince días.") {
		t.Errorf("renderTranscript() = %v, want the answer", transcript)
	}
	if m.input.Value() != "" {
		t.Errorf("Update() input = %v, want cleared", m.input.Value())
	}
}

func TestModel_BlankQuestionIgnored(t *testing.T) {
	fake := &fakeAssistant{}
	m := New(fake, true)

	m.input.SetValue("   ")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if len(fake.questions) != 0 {
		t.Errorf("Update() questions = %v, want none", fake.questions)
	}
}

func TestModel_ClearHistory(t *testing.T) {
	fake := &fakeAssistant{answer: "Respuesta."}
	m := New(fake, true)

	m.input.SetValue("¿Qué requisitos hay?")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = updated.(Model)

	if fake.cleared != 1 {
		t.Errorf("Update() cleared = %v, want 1", fake.cleared)
	}
	if m.status != statusCleared {
		t.Errorf("Update() status = %v, want %v", m.status, statusCleared)
	}
	if got := m.renderTranscript(); got != greeting {
		t.Errorf("renderTranscript() = %v, want greeting", got)
	}
}

func TestModel_Quit(t *testing.T) {
	m := New(&fakeAssistant{}, true)

	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		if cmd == nil {
			t.Fatalf("Update(%v) returned nil cmd, want quit", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("Update(%v) cmd = %T, want tea.QuitMsg", key, cmd())
		}
	}
}

func TestModel_View(t *testing.T) {
	m := New(&fakeAssistant{}, true)

	if got := m.View(); got != "Cargando documentos..." {
		t.Errorf("View() before sizing = %v, want loading message", got)
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "Asistente de convocatorias") {
		t.Errorf("View() = %v, want header", view)
	}
	if !strings.Contains(view, statusLoaded) {
		t.Errorf("View() = %v, want status line", view)
	}
}

func TestModel_TypingUpdatesInput(t *testing.T) {
	m := New(&fakeAssistant{}, true)

	for _, r := range "plazo" {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}

	if m.input.Value() != "plazo" {
		t.Errorf("Update() input = %v, want plazo", m.input.Value())
	}
}
