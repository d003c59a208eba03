package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/yanqian/flight-fare/internal/infra/model/forest"
)

// Source yields the serialized model artefact.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Describe() string
}

// FileSource reads the artefact from local disk.
type FileSource struct {
	Path string
}

// NewFileSource constructs a FileSource.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}
	return f, nil
}

func (s *FileSource) Describe() string { return "file://" + s.Path }

// Load reads the forest once. The returned model is never mutated afterwards.
func Load(ctx context.Context, src Source, logger *slog.Logger) (*forest.Forest, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	model, err := forest.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("load model from %s: %w", src.Describe(), err)
	}
	if logger != nil {
		logger.Info("regression model loaded", "source", src.Describe(), "trees", len(model.Trees), "features", model.NFeatures, "fingerprint", model.Fingerprint())
	}
	return model, nil
}

var _ Source = (*FileSource)(nil)
