package archive

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrUnexpectedStatus  = errors.New("unexpected status")
	ErrUnsupportedScheme = errors.New("unsupported url scheme")
	ErrIncomplete        = errors.New("incomplete download")
)

// Downloader copies one remote archive into dst.
type Downloader interface {
	Get(ctx context.Context, dst io.Writer) error
	Type() string
}

// Fetcher resolves an archive url to a downloader by scheme and writes the
// archive to a local file.
type Fetcher struct {
	s3 []MinioOpts
}

func NewFetcher(s3 ...MinioOpts) *Fetcher {
	return &Fetcher{s3: s3}
}

func (f *Fetcher) downloader(rawURL string) (Downloader, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %q", rawURL)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return NewHttpDownloader(rawURL), nil
	case "s3":
		opts := append([]MinioOpts{WithBucket(u.Host), WithObjectName(strings.TrimPrefix(u.Path, "/"))}, f.s3...)
		d, err := NewMinioDownloader(opts...)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "file":
		return NewFileDownloader(u.Path), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedScheme, "%q", u.Scheme)
	}
}

// Fetch downloads rawURL into dstPath, replacing any existing file.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, dstPath string) error {
	d, err := f.downloader(rawURL)
	if err != nil {
		return err
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return errors.Wrap(err, "creating archive file")
	}
	defer dst.Close()

	zap.S().Named("archive").Infow("downloading archive", "url", rawURL, "downloader_type", d.Type())
	if err := d.Get(ctx, dst); err != nil {
		return errors.Wrapf(err, "downloading %q", rawURL)
	}

	return dst.Close()
}

// wrapper counts the bytes written through it and logs download progress.
type wrapper struct {
	downloadedBytes atomic.Int64
	total           int64
	w               io.Writer
}

func newWrapper(ctx context.Context, w io.Writer, totalBytesToDownload int64) *wrapper {
	mw := &wrapper{w: w, total: totalBytesToDownload}
	go mw.start(ctx)

	return mw
}

func (m *wrapper) start(ctx context.Context) {
	oldValue := int64(0)
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			downloaded := m.downloadedBytes.Load()
			if m.total <= 0 {
				progress := fmt.Sprintf("%.2f Mb", float32(downloaded)/(1024*1024))
				zap.S().Named("archive").Debugw("archive downloading", "progress", progress)
				continue
			}

			progress := fmt.Sprintf("%.2f%%", 100*(float32(downloaded)/float32(m.total)))
			rate := fmt.Sprintf("%.2f MB/s", (float32(downloaded)-float32(oldValue))/(1024*1024*10))
			zap.S().Named("archive").Debugw("archive downloading", "progress", progress, "rate", rate)
			oldValue = downloaded
		}
	}
}

func (m *wrapper) Write(p []byte) (n int, err error) {
	n, err = m.w.Write(p)
	if err == nil {
		m.downloadedBytes.Add(int64(n))
	}
	return
}

// check reports a short read when the expected size was known.
func (m *wrapper) check() error {
	if got := m.downloadedBytes.Load(); m.total > 0 && got != m.total {
		return errors.Wrapf(ErrIncomplete, "expected bytes %d received %d", m.total, got)
	}
	return nil
}
