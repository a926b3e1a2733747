package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sheetsync/internal/fileaccess"
	"sheetsync/internal/i18n"
)

// SaveDialog 选择工作簿保存位置的 Bubble Tea 模型
// SaveDialog is the Bubble Tea model that asks where to save the workbook.
type SaveDialog struct {
	input     textinput.Model
	title     string
	hint      string
	theme     Theme
	keys      KeyMap
	done      bool
	cancelled bool
}

func NewSaveDialog(suggested string, locale *i18n.I18n) SaveDialog {
	if locale == nil {
		locale = i18n.Global()
	}
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 4096
	ti.Width = 60
	ti.SetValue(suggested)
	ti.Focus()

	return SaveDialog{
		input: ti,
		title: locale.T("dialog.title"),
		hint:  locale.T("dialog.hint"),
		theme: DarkTheme(),
		keys:  DefaultKeyMap(),
	}
}

func (d SaveDialog) Init() tea.Cmd {
	return textinput.Blink
}

func (d SaveDialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, d.keys.Quit), key.Matches(msg, d.keys.Cancel):
			d.cancelled = true
			return d, tea.Quit
		case key.Matches(msg, d.keys.Submit):
			if strings.TrimSpace(d.input.Value()) == "" {
				return d, nil
			}
			d.done = true
			return d, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 10 {
			d.input.Width = msg.Width - 8
		}
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d SaveDialog) View() string {
	if d.done || d.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(d.theme.TitleStyle.Render(d.title))
	b.WriteString("\n")
	b.WriteString(d.theme.InputStyle.Render(d.input.View()))
	b.WriteString("\n")
	b.WriteString(d.theme.MutedStyle.Render(d.hint))
	b.WriteString("\n")
	return b.String()
}

// Result 返回输入的路径；取消时返回 fileaccess.ErrCancelled
// Result returns the entered path, or fileaccess.ErrCancelled when the dialog was dismissed.
func (d SaveDialog) Result() (string, error) {
	if d.cancelled || !d.done {
		return "", fileaccess.ErrCancelled
	}
	return strings.TrimSpace(d.input.Value()), nil
}

// DialogPicker 以全屏对话框实现 fileaccess.Picker
// DialogPicker implements fileaccess.Picker with the save dialog.
type DialogPicker struct {
	In     io.Reader
	Out    io.Writer
	Locale *i18n.I18n
}

var _ fileaccess.Picker = DialogPicker{}

func (p DialogPicker) PickTarget(ctx context.Context, suggested string) (string, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}
	final, err := tea.NewProgram(NewSaveDialog(suggested, p.Locale), opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("save dialog: %w", err)
	}
	d, ok := final.(SaveDialog)
	if !ok {
		return "", fileaccess.ErrCancelled
	}
	return d.Result()
}
