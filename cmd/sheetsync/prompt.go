package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"sheetsync/internal/fileaccess"
	"sheetsync/internal/i18n"
	"sheetsync/internal/permission"
)

// linePicker 以一行输入实现保存对话框；直接回车接受建议文件名
// linePicker is the one-line save dialog; an empty answer accepts the suggested name.
func linePicker(reader lineInput, msgs *i18n.I18n) fileaccess.Picker {
	return fileaccess.PickerFunc(func(ctx context.Context, suggested string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		line, err := reader.ReadLine(msgs.T("prompt.pick_target", suggested))
		if err != nil {
			if isDismissal(err) {
				return "", fileaccess.ErrCancelled
			}
			return "", err
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			answer = suggested
		}
		return answer, nil
	})
}

// confirmPrompter 询问是否授予写入权限，默认拒绝
// confirmPrompter asks whether to grant write access; the default answer is no.
func confirmPrompter(reader lineInput, out io.Writer, msgs *i18n.I18n) permission.Prompter {
	return permission.PrompterFunc(func(ctx context.Context, h fileaccess.Handle) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if out != nil {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "target: %s\n", h.Path)
		}
		line, err := reader.ReadLine(msgs.T("prompt.elevate", h.Name))
		if err != nil {
			if isDismissal(err) {
				return false, fileaccess.ErrCancelled
			}
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	})
}

func isDismissal(err error) bool {
	return errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF)
}
