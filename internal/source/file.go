package source

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/hoax-insight/pkg/types"
)

// File reads a YAML list of articles. JSON files work too since JSON is a
// subset of YAML.
type File struct {
	path string
}

// NewFile returns a File source for path. The file is read on each call.
func NewFile(path string) *File {
	return &File{path: path}
}

// Articles reads and decodes the file.
func (f *File) Articles(_ context.Context) ([]types.Article, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: reading %s", f.path)
	}

	var out []types.Article
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, eris.Wrapf(err, "source: parsing %s", f.path)
	}

	zap.L().Debug("loaded articles from file",
		zap.String("path", f.path),
		zap.Int("articles", len(out)),
	)
	return out, nil
}

// Check reads the file and reports its article count.
func (f *File) Check(ctx context.Context) Health {
	arts, err := f.Articles(ctx)
	return healthFor(len(arts), err)
}

// Close is a no-op.
func (f *File) Close() {}
