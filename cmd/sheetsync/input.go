package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
)

type lineInput interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

type basicLineInput struct {
	reader *bufio.Reader
	out    io.Writer
}

func newBasicLineInput(in io.Reader, out io.Writer) *basicLineInput {
	return &basicLineInput{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (b *basicLineInput) ReadLine(prompt string) (string, error) {
	if b.out != nil {
		fmt.Fprint(b.out, prompt)
	}
	line, err := b.reader.ReadString('\n')
	if err != nil {
		// 最后一行没有换行符 / last line without a trailing newline
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (b *basicLineInput) Close() error { return nil }

type readlineInput struct {
	instance *readline.Instance
}

func newReadlineInput(historyPath string) (*readlineInput, error) {
	if historyPath != "" {
		if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	instance, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       historyPath,
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, err
	}
	return &readlineInput{instance: instance}, nil
}

func (r *readlineInput) ReadLine(prompt string) (string, error) {
	r.instance.SetPrompt(prompt)
	return r.instance.Readline()
}

func (r *readlineInput) Close() error {
	if r == nil || r.instance == nil {
		return nil
	}
	return r.instance.Close()
}

// newInputFor 终端标准输入使用 readline，其它输入（测试、管道）使用逐行读取
// newInputFor uses readline for the process stdin and a plain line reader otherwise.
func newInputFor(in io.Reader, out io.Writer, historyPath string, logger *slog.Logger) lineInput {
	if in == nil || in == os.Stdin {
		r, err := newReadlineInput(historyPath)
		if err == nil {
			return r
		}
		logger.Warn("line editor unavailable, fallback to basic input", "err", err)
		return newBasicLineInput(os.Stdin, out)
	}
	return newBasicLineInput(in, out)
}

// screenWidth 返回终端宽度，无法获取时为 100 / terminal width, 100 when unknown
func screenWidth() int {
	if w := readline.GetScreenWidth(); w > 20 {
		return w
	}
	return 100
}
