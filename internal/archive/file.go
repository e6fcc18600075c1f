package archive

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
)

// FileDownloader copies an archive already present on local disk.
type FileDownloader struct {
	path string
}

func NewFileDownloader(path string) *FileDownloader {
	return &FileDownloader{path: path}
}

func (f *FileDownloader) Get(ctx context.Context, dst io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := os.Open(f.path)
	if err != nil {
		return errors.Wrap(err, "opening local archive")
	}
	defer src.Close()

	fi, err := src.Stat()
	if err != nil {
		return err
	}

	newCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	mw := newWrapper(newCtx, dst, fi.Size())

	if _, err := io.Copy(mw, src); err != nil {
		return err
	}
	return mw.check()
}

func (f *FileDownloader) Type() string {
	return "file"
}
