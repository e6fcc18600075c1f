package archive_test

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/spritesoftware/node-gtfs/internal/archive"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("fetcher", func() {
	var (
		dir     string
		payload []byte
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		payload = make([]byte, 100)
		_, _ = rand.Read(payload)
	})

	Context("http", func() {
		It("downloads the archive", func() {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write(payload)
			}))
			defer ts.Close()

			dst := filepath.Join(dir, "latest.zip")
			err := archive.NewFetcher().Fetch(context.TODO(), ts.URL+"/agency/a/latest.zip", dst)
			Expect(err).To(BeNil())

			got, err := os.ReadFile(dst)
			Expect(err).To(BeNil())
			Expect(got).To(Equal(payload))
		})

		It("fails on a non-success status", func() {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "gone", http.StatusNotFound)
			}))
			defer ts.Close()

			err := archive.NewFetcher().Fetch(context.TODO(), ts.URL, filepath.Join(dir, "latest.zip"))
			Expect(err).NotTo(BeNil())
			Expect(errors.Is(err, archive.ErrUnexpectedStatus)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("404"))
		})

		It("fails when the server is unreachable", func() {
			ts := httptest.NewServer(http.NotFoundHandler())
			url := ts.URL
			ts.Close()

			err := archive.NewFetcher().Fetch(context.TODO(), url, filepath.Join(dir, "latest.zip"))
			Expect(err).NotTo(BeNil())
		})
	})

	Context("file", func() {
		It("copies a local archive", func() {
			src := filepath.Join(dir, "feed.zip")
			Expect(os.WriteFile(src, payload, 0o600)).To(Succeed())

			dst := filepath.Join(dir, "latest.zip")
			Expect(archive.NewFetcher().Fetch(context.TODO(), "file://"+src, dst)).To(Succeed())

			got, err := os.ReadFile(dst)
			Expect(err).To(BeNil())
			Expect(got).To(Equal(payload))
		})

		It("fails when the local archive is missing", func() {
			err := archive.NewFetcher().Fetch(context.TODO(), "file://"+filepath.Join(dir, "missing.zip"), filepath.Join(dir, "latest.zip"))
			Expect(err).NotTo(BeNil())
		})
	})

	Context("scheme", func() {
		It("rejects unsupported schemes", func() {
			err := archive.NewFetcher().Fetch(context.TODO(), "ftp://example.com/a.zip", filepath.Join(dir, "latest.zip"))
			Expect(errors.Is(err, archive.ErrUnsupportedScheme)).To(BeTrue())
		})

		It("requires an object name for s3", func() {
			err := archive.NewFetcher(archive.WithEndpoint("localhost:9000")).Fetch(context.TODO(), "s3://bucket", filepath.Join(dir, "latest.zip"))
			Expect(err).NotTo(BeNil())
		})
	})
})
