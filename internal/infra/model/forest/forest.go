package forest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrNotLoaded is returned when the forest has no trees.
	ErrNotLoaded = errors.New("forest: model has no trees")
	// ErrFeatureMismatch is returned when a row width differs from the trained width.
	ErrFeatureMismatch = errors.New("forest: feature count mismatch")
)

// Node is one entry of a tree's flat node table. Leaves carry Value;
// split nodes send x[Feature] <= Threshold to Left, otherwise to Right.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	Leaf      bool    `json:"leaf"`
}

// Tree is a regression tree rooted at Nodes[0].
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Forest averages the outputs of its trees. It is read-only after Decode
// and safe for concurrent use.
type Forest struct {
	NFeatures int    `json:"n_features"`
	Trees     []Tree `json:"trees"`

	fingerprint string
}

// Decode reads and validates a JSON forest export. The forest is
// fingerprinted with the sha256 of the raw artefact bytes.
func Decode(r io.Reader) (*Forest, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read forest: %w", err)
	}
	var f Forest
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode forest: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	sum := sha256.Sum256(raw)
	f.fingerprint = "sha256:" + hex.EncodeToString(sum[:])
	return &f, nil
}

// Fingerprint identifies the artefact the forest was decoded from. It is
// empty for forests built in code.
func (f *Forest) Fingerprint() string {
	if f == nil {
		return ""
	}
	return f.fingerprint
}

// Validate checks that every split references an in-range feature and
// child, so PredictBatch cannot index out of bounds or loop.
func (f *Forest) Validate() error {
	if f.NFeatures <= 0 {
		return errors.New("forest: n_features must be positive")
	}
	if len(f.Trees) == 0 {
		return ErrNotLoaded
	}
	for t, tree := range f.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("forest: tree %d is empty", t)
		}
		for i, n := range tree.Nodes {
			if n.Leaf {
				continue
			}
			if n.Feature < 0 || n.Feature >= f.NFeatures {
				return fmt.Errorf("forest: tree %d node %d: feature %d out of range", t, i, n.Feature)
			}
			// children must point forward, which also rules out cycles
			if n.Left <= i || n.Left >= len(tree.Nodes) || n.Right <= i || n.Right >= len(tree.Nodes) {
				return fmt.Errorf("forest: tree %d node %d: invalid children %d/%d", t, i, n.Left, n.Right)
			}
		}
	}
	return nil
}

// PredictBatch returns one averaged prediction per row.
func (f *Forest) PredictBatch(rows [][]float64) ([]float64, error) {
	if f == nil || len(f.Trees) == 0 {
		return nil, ErrNotLoaded
	}
	out := make([]float64, len(rows))
	scores := make([]float64, len(f.Trees))
	for r, row := range rows {
		if len(row) != f.NFeatures {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrFeatureMismatch, len(row), f.NFeatures)
		}
		for t := range f.Trees {
			scores[t] = f.Trees[t].predict(row)
		}
		out[r] = stat.Mean(scores, nil)
	}
	return out, nil
}

func (t *Tree) predict(row []float64) float64 {
	idx := 0
	for {
		n := t.Nodes[idx]
		if n.Leaf {
			return n.Value
		}
		if row[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}
