package fileaccess

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// OS 基于本地文件系统的 Access 实现
// OS implements Access on the local file system.
type OS struct {
	permFile os.FileMode
}

func NewOS() *OS {
	return &OS{permFile: 0o644}
}

var _ Access = (*OS)(nil)

func (o *OS) Query(ctx context.Context, h Handle) (Permission, error) {
	if err := ctx.Err(); err != nil {
		return PermissionDenied, err
	}
	if !h.Valid() {
		return PermissionDenied, errors.New("query permission: invalid handle")
	}
	info, err := os.Stat(h.Path)
	switch {
	case err == nil:
		if info.IsDir() {
			return PermissionDenied, nil
		}
		// Write 通过父目录中的临时文件替换目标，目录不可写时 chmod 目标也无济于事
		// Write replaces the target through a temp file in its directory; chmod on the file cannot fix that.
		if !dirWritable(filepath.Dir(h.Path)) {
			return PermissionDenied, nil
		}
		if canReadWrite(h.Path) {
			return PermissionGranted, nil
		}
		if ownedByCurrentUser(info) {
			return PermissionGrantable, nil
		}
		return PermissionDenied, nil
	case errors.Is(err, os.ErrNotExist):
		// 目标尚未创建：父目录可写即可 / not created yet: a writable parent is enough
		if dirWritable(filepath.Dir(h.Path)) {
			return PermissionGranted, nil
		}
		return PermissionDenied, nil
	default:
		return PermissionDenied, fmt.Errorf("stat target: %w", err)
	}
}

func (o *OS) Elevate(ctx context.Context, h Handle) (Permission, error) {
	perm, err := o.Query(ctx, h)
	if err != nil || perm != PermissionGrantable {
		return perm, err
	}
	info, err := os.Stat(h.Path)
	if err != nil {
		return PermissionDenied, fmt.Errorf("stat target: %w", err)
	}
	if err := os.Chmod(h.Path, info.Mode().Perm()|0o600); err != nil {
		return PermissionDenied, fmt.Errorf("chmod target: %w", err)
	}
	return o.Query(ctx, h)
}

func (o *OS) Read(ctx context.Context, h Handle) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(h.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read target: %w", err)
	}
	return data, nil
}

// Write 同目录临时文件 + fsync + rename；rename 之前失败不会改动目标
// Write stages the content in a temp file next to the target and renames it over the target.
// Nothing is committed before the rename.
func (o *OS) Write(ctx context.Context, h Handle, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !h.Valid() {
		return errors.New("write target: invalid handle")
	}
	perm := o.permFile
	if info, err := os.Stat(h.Path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(h.Path)
	tmp, err := os.CreateTemp(dir, ".sheetsync-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, perm)

	if _, err := io.Copy(tmp, readerWithCtx(ctx, bytes.NewReader(data))); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := osReplace(tmpPath, h.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace target: %w", err)
	}
	_ = syncDir(dir)
	return nil
}

func readerWithCtx(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
