package config_test

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spritesoftware/node-gtfs/internal/config"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const urlTemplate = "http://www.gtfs-data-exchange.com/agency/%s/latest.zip"

var _ = Describe("agency list", func() {
	Context("parse", func() {
		It("resolves bare keys against the default url", func() {
			agencies, err := config.ParseAgencies([]byte("agencies:\n  - caltrain\n"), urlTemplate)
			Expect(err).To(BeNil())
			Expect(agencies).To(HaveLen(1))
			Expect(agencies[0].Key).To(Equal("caltrain"))
			Expect(agencies[0].URL).To(Equal("http://www.gtfs-data-exchange.com/agency/caltrain/latest.zip"))
		})

		It("keeps explicit urls and list order", func() {
			data := `
agencies:
  - agency_key: bart
    url: https://example.com/bart.zip
  - caltrain
  - agency_key: local
    url: file:///tmp/local.zip
`
			agencies, err := config.ParseAgencies([]byte(data), urlTemplate)
			Expect(err).To(BeNil())
			Expect(agencies).To(HaveLen(3))
			Expect(agencies[0].Key).To(Equal("bart"))
			Expect(agencies[0].URL).To(Equal("https://example.com/bart.zip"))
			Expect(agencies[1].Key).To(Equal("caltrain"))
			Expect(agencies[2].URL).To(Equal("file:///tmp/local.zip"))
		})

		It("accepts json", func() {
			data := `{"agencies": ["a", {"agency_key": "b", "url": "s3://feeds/b.zip"}]}`
			agencies, err := config.ParseAgencies([]byte(data), urlTemplate)
			Expect(err).To(BeNil())
			Expect(agencies).To(HaveLen(2))
			Expect(agencies[1].URL).To(Equal("s3://feeds/b.zip"))
		})

		It("fails when the list is missing", func() {
			_, err := config.ParseAgencies([]byte("other: 1\n"), urlTemplate)
			Expect(errors.Is(err, config.ErrNoAgencies)).To(BeTrue())
		})

		It("fails when an object entry has no url", func() {
			_, err := config.ParseAgencies([]byte("agencies:\n  - agency_key: bart\n"), urlTemplate)
			Expect(err).NotTo(BeNil())
		})

		It("fails when an object entry has no key", func() {
			_, err := config.ParseAgencies([]byte("agencies:\n  - url: http://example.com/a.zip\n"), urlTemplate)
			Expect(err).NotTo(BeNil())
		})

		DescribeTable("rejects keys that are not a single path segment",
			func(entry string) {
				_, err := config.ParseAgencies([]byte("agencies:\n  - "+entry+"\n"), urlTemplate)
				Expect(err).NotTo(BeNil())
			},
			Entry("parent", `agency_key: ".."
    url: file:///nonexistent.zip`),
			Entry("current", `agency_key: "."
    url: file:///nonexistent.zip`),
			Entry("nested", `agency_key: a/b
    url: http://example.com/a.zip`),
			Entry("backslash", `agency_key: 'a\b'
    url: http://example.com/a.zip`),
			Entry("bare parent", `".."`),
		)

		It("reports unsafe keys with a sentinel", func() {
			_, err := config.ParseAgencies([]byte("agencies:\n  - agency_key: \"..\"\n    url: file:///nonexistent.zip\n"), urlTemplate)
			Expect(errors.Is(err, config.ErrInvalidAgencyKey)).To(BeTrue())
		})

		It("rejects unsupported schemes", func() {
			_, err := config.ParseAgencies([]byte("agencies:\n  - agency_key: a\n    url: ftp://example.com/a.zip\n"), urlTemplate)
			Expect(err).NotTo(BeNil())
			Expect(err.Error()).To(ContainSubstring("unsupported url scheme"))
		})
	})

	Context("load", func() {
		It("reads the list from disk", func() {
			path := filepath.Join(GinkgoT().TempDir(), "agencies.yaml")
			Expect(os.WriteFile(path, []byte("agencies:\n  - caltrain\n"), 0600)).To(Succeed())

			agencies, err := config.LoadAgencies(path, urlTemplate)
			Expect(err).To(BeNil())
			Expect(agencies).To(HaveLen(1))
		})

		It("fails when the file does not exist", func() {
			_, err := config.LoadAgencies(filepath.Join(GinkgoT().TempDir(), "missing.yaml"), urlTemplate)
			Expect(err).NotTo(BeNil())
		})
	})
})
