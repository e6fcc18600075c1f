package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spritesoftware/node-gtfs/internal/gtfs"
	"github.com/spritesoftware/node-gtfs/internal/store"
	"github.com/spritesoftware/node-gtfs/internal/store/model"
	"github.com/spritesoftware/node-gtfs/pkg/metrics"
	"go.uber.org/zap"
)

// maxLoggedWarnings bounds the per-file coercion warnings logged one by one.
const maxLoggedWarnings = 10

// FileResult summarises the import of one GTFS file.
type FileResult struct {
	File       string
	Skipped    bool
	Rows       int
	Warnings   int
	ShapeStats int
}

// FileImporter streams the files of one unpacked feed into the store. It
// owns the shape and bounds state of a single agency import and must not be
// shared between agencies.
type FileImporter struct {
	store       store.Store
	dir         string
	transformer *gtfs.Transformer
	shapes      *gtfs.ShapeAccumulator
	bounds      *gtfs.BoundsTracker
	log         *zap.SugaredLogger
}

func NewFileImporter(s store.Store, agencyKey string, dir string) *FileImporter {
	return &FileImporter{
		store:       s,
		dir:         dir,
		transformer: gtfs.NewTransformer(agencyKey),
		shapes:      gtfs.NewShapeAccumulator(agencyKey),
		bounds:      &gtfs.BoundsTracker{},
		log:         zap.S().Named("file_importer").With("agency", agencyKey),
	}
}

// Bounds returns the box of every location seen so far.
func (fi *FileImporter) Bounds() (model.Bounds, bool) {
	return fi.bounds.Bounds()
}

// ImportAll imports the catalog files in order, one drained before the
// next begins.
func (fi *FileImporter) ImportAll(ctx context.Context) ([]FileResult, error) {
	results := make([]FileResult, 0, len(gtfs.Catalog))
	for _, spec := range gtfs.Catalog {
		res, err := fi.ImportFile(ctx, spec)
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// ImportFile imports one file. A missing file is skipped. Failed writes do
// not stop the stream; they are returned together once the file is done.
func (fi *FileImporter) ImportFile(ctx context.Context, spec gtfs.FileSpec) (FileResult, error) {
	res := FileResult{File: spec.Base}

	f, err := os.Open(filepath.Join(fi.dir, spec.FileName()))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fi.log.Debugw("file not present in feed, skipping", "file", spec.FileName())
			res.Skipped = true
			return res, nil
		}
		return res, fmt.Errorf("opening %s: %w", spec.FileName(), err)
	}
	defer f.Close()

	fi.log.Infow("importing data", "file", spec.FileName())

	reader, err := gtfs.NewReader(f)
	if err != nil {
		return res, fmt.Errorf("%s: %w", spec.FileName(), err)
	}

	var writeErrs []error
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("%s: %w", spec.FileName(), err)
		}

		record, warnings := fi.transformer.Transform(spec, row)
		fi.warn(&res, spec, reader.Line(), warnings)

		if p, ok := record.(*model.ShapePoint); ok {
			if stat := fi.shapes.Add(p); stat != nil {
				if err := fi.writeStat(ctx, &res, stat); err != nil {
					writeErrs = append(writeErrs, err)
				}
			}
		}
		if located, ok := record.(model.Located); ok {
			if loc := located.Location(); loc != nil {
				fi.bounds.Extend(*loc)
			}
		}

		if err := fi.store.Records().Insert(ctx, record); err != nil {
			fi.log.Errorw("failed to write record", "file", spec.FileName(), "line", reader.Line(), "error", err)
			writeErrs = append(writeErrs, err)
			continue
		}
		res.Rows++
	}

	if spec.Collection == model.TableShapes {
		if stat := fi.shapes.Flush(); stat != nil {
			if err := fi.writeStat(ctx, &res, stat); err != nil {
				writeErrs = append(writeErrs, err)
			}
		}
	}

	metrics.AddRowsImportedMetric(spec.Base, res.Rows)
	metrics.AddCoercionWarningsMetric(spec.Base, res.Warnings)
	if res.Warnings > 0 {
		fi.log.Warnw("values could not be coerced", "file", spec.FileName(), "count", res.Warnings)
	}
	fi.log.Infow("file imported", "file", spec.FileName(), "rows", res.Rows)

	if len(writeErrs) > 0 {
		return res, NewErrWriteFailed(spec.FileName(), writeErrs)
	}
	return res, nil
}

func (fi *FileImporter) writeStat(ctx context.Context, res *FileResult, stat *model.ShapeStat) error {
	if err := fi.store.Records().InsertShapeStat(ctx, stat); err != nil {
		fi.log.Errorw("failed to write shape stats", "shape_id", stat.ShapeID, "error", err)
		return err
	}
	res.ShapeStats++
	metrics.IncreaseShapeStatsMetric()
	return nil
}

func (fi *FileImporter) warn(res *FileResult, spec gtfs.FileSpec, line int, warnings []gtfs.Warning) {
	for _, w := range warnings {
		if res.Warnings < maxLoggedWarnings {
			fi.log.Debugw("coercion failed", "file", spec.FileName(), "line", line, "warning", w.String())
		}
		res.Warnings++
	}
}
