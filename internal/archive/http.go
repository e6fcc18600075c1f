package archive

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

type HttpDownloader struct {
	url    string
	client *http.Client
}

func NewHttpDownloader(url string) *HttpDownloader {
	return &HttpDownloader{url: url, client: http.DefaultClient}
}

func (h *HttpDownloader) Get(ctx context.Context, dst io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Wrapf(ErrUnexpectedStatus, "status code %d", resp.StatusCode)
	}

	newCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	mw := newWrapper(newCtx, dst, resp.ContentLength)

	if _, err := io.Copy(mw, resp.Body); err != nil {
		return err
	}

	return mw.check()
}

func (h *HttpDownloader) Type() string {
	return "http"
}
