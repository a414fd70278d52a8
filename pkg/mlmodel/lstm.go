package mlmodel

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// MaxSeqLen is the fixed sequence length the LSTM was trained with. Inputs
// are truncated or zero-padded to this length before inference.
const MaxSeqLen = 20

// lstmLayer holds the weights of one recurrent layer. Gate rows are packed in
// input, forget, cell, output order, matching the export format.
type lstmLayer struct {
	WIH [][]float64 `json:"wih"` // [4*hidden][input]
	WHH [][]float64 `json:"whh"` // [4*hidden][hidden]
	BIH []float64   `json:"bih"` // [4*hidden]
	BHH []float64   `json:"bhh"` // [4*hidden]
}

// LSTM is a frozen 2-layer recurrent sequence classifier: an embedding table,
// stacked LSTM layers and a final linear projection to two logits. Dropout
// exists only at training time and is absent here.
type LSTM struct {
	embedding [][]float64 // [vocab][embedDim]
	layers    []lstmLayer
	fcW       [][]float64 // [2][hidden]
	fcB       []float64   // [2]
	embedDim  int
	hiddenDim int
}

type lstmFile struct {
	Embedding [][]float64 `json:"embedding"`
	Layers    []lstmLayer `json:"layers"`
	FC        struct {
		W [][]float64 `json:"w"`
		B []float64   `json:"b"`
	} `json:"fc"`
}

// LoadLSTM reads an LSTM artifact from the given path and validates the shape
// of every weight matrix.
func LoadLSTM(path string) (*LSTM, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read lstm artifact: %w", err)
	}

	var f lstmFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("could not decode lstm artifact: %w", err)
	}

	return newLSTM(f)
}

// newLSTM validates the raw artifact and assembles the model.
func newLSTM(f lstmFile) (*LSTM, error) {
	if len(f.Embedding) == 0 || len(f.Embedding[0]) == 0 {
		return nil, fmt.Errorf("lstm artifact has an empty embedding table")
	}
	if len(f.Layers) == 0 {
		return nil, fmt.Errorf("lstm artifact has no recurrent layers")
	}

	embedDim := len(f.Embedding[0])
	hidden := len(f.Layers[0].WHH)
	if hidden%4 != 0 {
		return nil, fmt.Errorf("lstm artifact mismatch: packed gate rows %d not divisible by 4", hidden)
	}
	hidden /= 4

	in := embedDim
	for i, l := range f.Layers {
		if len(l.WIH) != 4*hidden || len(l.WHH) != 4*hidden ||
			len(l.BIH) != 4*hidden || len(l.BHH) != 4*hidden {
			return nil, fmt.Errorf("lstm artifact mismatch: layer %d gate rows", i)
		}
		for _, row := range l.WIH {
			if len(row) != in {
				return nil, fmt.Errorf("lstm artifact mismatch: layer %d input width", i)
			}
		}
		for _, row := range l.WHH {
			if len(row) != hidden {
				return nil, fmt.Errorf("lstm artifact mismatch: layer %d hidden width", i)
			}
		}
		in = hidden
	}
	if len(f.FC.W) != 2 || len(f.FC.B) != 2 {
		return nil, fmt.Errorf("lstm artifact mismatch: final projection must emit 2 logits")
	}
	for _, row := range f.FC.W {
		if len(row) != hidden {
			return nil, fmt.Errorf("lstm artifact mismatch: final projection width")
		}
	}

	return &LSTM{
		embedding: f.Embedding,
		layers:    f.Layers,
		fcW:       f.FC.W,
		fcB:       f.FC.B,
		embedDim:  embedDim,
		hiddenDim: hidden,
	}, nil
}

// Predict runs the sequence through the network and returns the softmax
// probability of the phishing class. Indices outside the embedding table are
// clamped to the reserved index 0.
func (m *LSTM) Predict(seq []int) float64 {
	// fix the sequence length the same way the training pipeline did
	fixed := make([]int, MaxSeqLen)
	for i := 0; i < MaxSeqLen && i < len(seq); i++ {
		idx := seq[i]
		if idx < 0 || idx >= len(m.embedding) {
			idx = 0
		}
		fixed[i] = idx
	}

	// per-timestep inputs, replaced layer by layer
	inputs := make([][]float64, MaxSeqLen)
	for t, idx := range fixed {
		inputs[t] = m.embedding[idx]
	}

	var last []float64
	for l := range m.layers {
		inputs = m.layers[l].run(inputs, m.hiddenDim)
		last = inputs[len(inputs)-1]
	}

	// final linear projection over the last timestep's hidden state
	var logits [2]float64
	for c := 0; c < 2; c++ {
		sum := m.fcB[c]
		for j, h := range last {
			sum += m.fcW[c][j] * h
		}
		logits[c] = sum
	}

	return softmax2(logits[0], logits[1])
}

// run evaluates one LSTM layer over the whole sequence, returning the hidden
// state at every timestep.
func (l *lstmLayer) run(inputs [][]float64, hidden int) [][]float64 {
	h := make([]float64, hidden)
	c := make([]float64, hidden)
	out := make([][]float64, len(inputs))

	gates := make([]float64, 4*hidden)
	for t, x := range inputs {
		for row := 0; row < 4*hidden; row++ {
			sum := l.BIH[row] + l.BHH[row]
			for j, xv := range x {
				sum += l.WIH[row][j] * xv
			}
			for j, hv := range h {
				sum += l.WHH[row][j] * hv
			}
			gates[row] = sum
		}

		newH := make([]float64, hidden)
		newC := make([]float64, hidden)
		for j := 0; j < hidden; j++ {
			in := sigmoid(gates[j])
			forget := sigmoid(gates[hidden+j])
			cell := math.Tanh(gates[2*hidden+j])
			outGate := sigmoid(gates[3*hidden+j])

			newC[j] = forget*c[j] + in*cell
			newH[j] = outGate * math.Tanh(newC[j])
		}
		h, c = newH, newC
		out[t] = h
	}

	return out
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// softmax2 returns the probability of the second class given two logits,
// using the max-subtraction trick for numeric stability.
func softmax2(l0, l1 float64) float64 {
	m := math.Max(l0, l1)
	e0 := math.Exp(l0 - m)
	e1 := math.Exp(l1 - m)

	return e1 / (e0 + e1)
}
