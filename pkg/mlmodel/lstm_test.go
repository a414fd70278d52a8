package mlmodel_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"qrguard/pkg/mlmodel"
)

// tinyLSTM is a 2-layer network with embed and hidden dimension 1 and all
// recurrent weights zero, so the hidden state stays 0 and the output is fully
// determined by the final projection.
func tinyLSTM(t *testing.T, fcB string) *mlmodel.LSTM {
	t.Helper()
	layer := `{"wih":[[0],[0],[0],[0]],"whh":[[0],[0],[0],[0]],"bih":[0,0,0,0],"bhh":[0,0,0,0]}`
	path := writeArtifact(t, "lstm.json", `{
		"embedding": [[0],[0.5],[1.0]],
		"layers": [`+layer+`,`+layer+`],
		"fc": {"w": [[0],[0]], "b": `+fcB+`}
	}`)

	m, err := mlmodel.LoadLSTM(path)
	require.NoError(t, err)

	return m
}

func TestLSTM_ZeroWeightsAreNeutral(t *testing.T) {
	m := tinyLSTM(t, `[0,0]`)

	// equal logits give exactly 0.5 for the phishing class
	require.Equal(t, 0.5, m.Predict([]int{1, 2, 1}))
	require.Equal(t, 0.5, m.Predict(nil))
}

func TestLSTM_BiasControlsOutput(t *testing.T) {
	m := tinyLSTM(t, `[0,1]`)

	want := math.Exp(1) / (1 + math.Exp(1))
	require.InDelta(t, want, m.Predict([]int{1}), 1e-12)
}

func TestLSTM_Deterministic(t *testing.T) {
	m := tinyLSTM(t, `[0.3,0.7]`)

	seq := []int{1, 2, 0, 1, 2}
	first := m.Predict(seq)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, m.Predict(seq), "inference must be bit-for-bit reproducible")
	}
	require.Greater(t, first, 0.0)
	require.Less(t, first, 1.0)
}

func TestLSTM_OutOfRangeIndicesClamp(t *testing.T) {
	m := tinyLSTM(t, `[0.2,0.4]`)

	// indices outside the embedding table behave like the reserved index 0
	require.Equal(t, m.Predict([]int{0, 0}), m.Predict([]int{99, -3}))
}

func TestLSTM_LongSequenceTruncates(t *testing.T) {
	m := tinyLSTM(t, `[0.1,0.9]`)

	long := make([]int, 100)
	for i := range long {
		long[i] = 1
	}
	require.Equal(t, m.Predict(long[:mlmodel.MaxSeqLen]), m.Predict(long))
}

func TestLoadLSTM_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			name:    "empty embedding",
			content: `{"embedding":[],"layers":[],"fc":{"w":[[0],[0]],"b":[0,0]}}`,
		},
		{
			name:    "no layers",
			content: `{"embedding":[[0]],"layers":[],"fc":{"w":[[0],[0]],"b":[0,0]}}`,
		},
		{
			name: "wrong projection arity",
			content: `{"embedding":[[0]],
				"layers":[{"wih":[[0],[0],[0],[0]],"whh":[[0],[0],[0],[0]],"bih":[0,0,0,0],"bhh":[0,0,0,0]}],
				"fc":{"w":[[0]],"b":[0]}}`,
		},
		{
			name:    "not json",
			content: `{`,
		},
	}

	for _, tc := range cases {
		path := writeArtifact(t, "lstm.json", tc.content)
		_, err := mlmodel.LoadLSTM(path)
		require.Error(t, err, tc.name)
	}
}
