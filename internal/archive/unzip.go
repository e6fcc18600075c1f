package archive

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrIllegalPath = errors.New("illegal path in archive")

// Unzip extracts src into dstDir. When every entry of the archive sits under
// one top-level folder, that folder is stripped so the feed files land
// directly in dstDir. It returns the paths of the extracted files.
func Unzip(src string, dstDir string) ([]string, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		if errors.Is(err, zip.ErrInsecurePath) {
			_ = r.Close()
			return nil, errors.Wrap(ErrIllegalPath, src)
		}
		return nil, errors.Wrap(err, "opening archive")
	}
	defer r.Close()

	prefix := commonFolder(r.File)

	extracted := []string{}
	for _, f := range r.File {
		name := strings.TrimPrefix(f.Name, prefix)
		if name == "" || strings.HasSuffix(name, "/") || isJunk(name) {
			continue
		}

		target := filepath.Join(dstDir, filepath.FromSlash(name))
		if !strings.HasPrefix(target, filepath.Clean(dstDir)+string(os.PathSeparator)) {
			return nil, errors.Wrapf(ErrIllegalPath, "%q", f.Name)
		}

		if err := extract(f, target); err != nil {
			return nil, errors.Wrapf(err, "extracting %q", f.Name)
		}
		extracted = append(extracted, target)
	}

	return extracted, nil
}

func extract(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return err
	}
	return out.Close()
}

// commonFolder returns "dir/" when all entries live below the same
// top-level folder, "" otherwise.
func commonFolder(files []*zip.File) string {
	folder := ""
	for _, f := range files {
		if isJunk(f.Name) {
			continue
		}
		first, _, nested := strings.Cut(f.Name, "/")
		if !nested {
			return ""
		}
		if folder == "" {
			folder = first
		} else if folder != first {
			return ""
		}
	}
	if folder == "" {
		return ""
	}
	return folder + "/"
}

// isJunk matches metadata folders added by desktop archivers.
func isJunk(name string) bool {
	return strings.HasPrefix(name, "__MACOSX/") || path.Base(name) == ".DS_Store"
}
