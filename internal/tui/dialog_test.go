package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"sheetsync/internal/fileaccess"
	"sheetsync/internal/i18n"
)

func TestSaveDialog_Submit(t *testing.T) {
	d := NewSaveDialog("customer_data", i18n.New("en"))
	m, _ := d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(".xlsx")})
	m, cmd := m.(SaveDialog).Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("submit should quit the program")
	}
	got, err := m.(SaveDialog).Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if got != "customer_data.xlsx" {
		t.Fatalf("Result=%q", got)
	}
}

func TestSaveDialog_Cancel(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		d := NewSaveDialog("book.xlsx", i18n.New("en"))
		m, _ := d.Update(tea.KeyMsg{Type: k})
		if _, err := m.(SaveDialog).Result(); !errors.Is(err, fileaccess.ErrCancelled) {
			t.Fatalf("key %v: err=%v, want ErrCancelled", k, err)
		}
		if m.View() != "" {
			t.Fatal("a closed dialog renders nothing")
		}
	}
}

func TestSaveDialog_EmptySubmitIgnored(t *testing.T) {
	d := NewSaveDialog("", i18n.New("en"))
	m, cmd := d.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("empty submit should keep the dialog open")
	}
	if _, err := m.(SaveDialog).Result(); !errors.Is(err, fileaccess.ErrCancelled) {
		t.Fatalf("err=%v", err)
	}
}

func TestSaveDialog_View(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	d := NewSaveDialog("book.xlsx", i18n.New("en"))
	if v := d.View(); v == "" {
		t.Fatal("open dialog should render")
	}
}
