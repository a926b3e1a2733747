package fileaccess

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrCancelled 用户关闭了选择框或提示 / the user dismissed a picker or prompt
var ErrCancelled = errors.New("cancelled by user")

// Permission 句柄当前的访问级别，每次按需重新计算
// Permission is the current access level of a handle; it is derived on demand and never persisted.
type Permission string

const (
	PermissionGranted   Permission = "granted"
	PermissionGrantable Permission = "grantable"
	PermissionDenied    Permission = "denied"
)

// Handle 指向外部工作簿文件的能力对象
// Handle references one external workbook file.
type Handle struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// NewHandle 由用户选择的路径构建句柄（绝对路径，~ 展开）
// NewHandle builds a handle from a user-chosen path (absolute, ~ expanded).
func NewHandle(path string) (Handle, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Handle{}, errors.New("target path is empty")
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Handle{}, fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Handle{}, fmt.Errorf("abs target path: %w", err)
	}
	return Handle{
		Path:      abs,
		Name:      filepath.Base(abs),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h Handle) Valid() bool {
	return strings.TrimSpace(h.Path) != ""
}

// Access 同步核心使用的文件能力接口
// Access is the file capability API consumed by the sync core.
type Access interface {
	// Query 返回当前权限，不提示用户 / Query reports the current permission without prompting.
	Query(ctx context.Context, h Handle) (Permission, error)
	// Elevate 在用户同意后提升为读写 / Elevate raises access to read-write once the user agreed.
	Elevate(ctx context.Context, h Handle) (Permission, error)
	// Read 读取全部字节；文件不存在视为空 / Read returns all bytes; a missing file reads as empty.
	Read(ctx context.Context, h Handle) ([]byte, error)
	// Write 整体替换目标内容，要么全部提交要么不变 / Write replaces the whole target, all or nothing.
	Write(ctx context.Context, h Handle, data []byte) error
}

// Picker 让用户选择或新建写入目标（类似保存对话框）
// Picker asks the user to pick or create a write target, like a save dialog.
// Implementations return ErrCancelled when the user backs out.
type Picker interface {
	PickTarget(ctx context.Context, suggested string) (string, error)
}

type PickerFunc func(ctx context.Context, suggested string) (string, error)

func (f PickerFunc) PickTarget(ctx context.Context, suggested string) (string, error) {
	return f(ctx, suggested)
}

// StaticPicker always answers with the same path; used for --file.
func StaticPicker(path string) Picker {
	return PickerFunc(func(ctx context.Context, _ string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if strings.TrimSpace(path) == "" {
			return "", ErrCancelled
		}
		return path, nil
	})
}

// EnsureWorkbookExt appends .xlsx unless the name already carries it.
func EnsureWorkbookExt(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return path
	}
	return path + ".xlsx"
}
