package forest

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const twoTrees = `{
  "n_features": 3,
  "trees": [
    {"nodes": [
      {"feature": 0, "threshold": 1.5, "left": 1, "right": 2},
      {"leaf": true, "value": 100},
      {"leaf": true, "value": 300}
    ]},
    {"nodes": [
      {"feature": 2, "threshold": 0.5, "left": 1, "right": 2},
      {"leaf": true, "value": 200},
      {"leaf": true, "value": 500}
    ]}
  ]
}`

func TestDecodeAndPredict(t *testing.T) {
	f, err := Decode(strings.NewReader(twoTrees))
	require.NoError(t, err)
	require.Equal(t, 3, f.NFeatures)

	out, err := f.PredictBatch([][]float64{
		{1, 0, 0}, // 100, 200
		{2, 0, 1}, // 300, 500
		{1.5, 9, 0.5},
	})
	require.NoError(t, err)
	require.Equal(t, []float64{150, 400, 150}, out)
}

func TestDecodeFingerprintsArtefact(t *testing.T) {
	a, err := Decode(strings.NewReader(twoTrees))
	require.NoError(t, err)
	b, err := Decode(strings.NewReader(twoTrees))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(a.Fingerprint(), "sha256:"))
	require.Equal(t, a.Fingerprint(), b.Fingerprint())

	retrained, err := Decode(strings.NewReader(strings.Replace(twoTrees, `"value": 500`, `"value": 501`, 1)))
	require.NoError(t, err)
	require.NotEqual(t, a.Fingerprint(), retrained.Fingerprint())

	require.Empty(t, (&Forest{}).Fingerprint())
}

func TestPredictBatchFeatureMismatch(t *testing.T) {
	f, err := Decode(strings.NewReader(twoTrees))
	require.NoError(t, err)

	_, err = f.PredictBatch([][]float64{{1, 2}})
	require.ErrorIs(t, err, ErrFeatureMismatch)
}

func TestPredictBatchNotLoaded(t *testing.T) {
	var f *Forest
	_, err := f.PredictBatch([][]float64{{1}})
	require.ErrorIs(t, err, ErrNotLoaded)

	_, err = (&Forest{NFeatures: 1}).PredictBatch([][]float64{{1}})
	require.ErrorIs(t, err, ErrNotLoaded)
}

func TestDecodeRejectsInvalidForests(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed", `{"n_features": 3, "trees": [`},
		{"no features", `{"n_features": 0, "trees": [{"nodes": [{"leaf": true}]}]}`},
		{"no trees", `{"n_features": 3, "trees": []}`},
		{"empty tree", `{"n_features": 3, "trees": [{"nodes": []}]}`},
		{"feature out of range", `{"n_features": 3, "trees": [{"nodes": [
			{"feature": 3, "threshold": 1, "left": 1, "right": 2},
			{"leaf": true}, {"leaf": true}]}]}`},
		{"child out of range", `{"n_features": 3, "trees": [{"nodes": [
			{"feature": 0, "threshold": 1, "left": 1, "right": 5},
			{"leaf": true}, {"leaf": true}]}]}`},
		{"backward child", `{"n_features": 3, "trees": [{"nodes": [
			{"feature": 0, "threshold": 1, "left": 0, "right": 1},
			{"leaf": true}]}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.raw))
			require.Error(t, err)
		})
	}
}

func TestBundledModelScoresReferenceItinerary(t *testing.T) {
	file, err := os.Open("../../../../models/flight_rf.json")
	require.NoError(t, err)
	defer file.Close()

	f, err := Decode(file)
	require.NoError(t, err)
	require.Equal(t, 29, f.NFeatures)

	row := []float64{
		1, 10, 3, 9, 15, 14, 45, 5, 30,
		0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		1, 0, 0, 0,
		1, 0, 0, 0, 0,
	}
	out, err := f.PredictBatch([][]float64{row})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.InDelta(t, (7160.25+8450.0+10488.6)/3, out[0], 1e-9)
}
