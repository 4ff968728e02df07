package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 線形分離可能な2クラスのデータセット
func separableDataset() ([][]float32, []bool) {
	vectors := [][]float32{
		{2.0, 1.5}, {1.8, 2.2}, {2.5, 1.9}, {2.1, 2.4},
		{-2.0, -1.5}, {-1.8, -2.2}, {-2.5, -1.9}, {-2.1, -2.4},
	}
	labels := []bool{true, true, true, true, false, false, false, false}
	return vectors, labels
}

func TestFitSeparatesLinearlySeparableData(t *testing.T) {
	vectors, labels := separableDataset()

	model, err := Fit(vectors, labels, DefaultFitConfig())
	require.NoError(t, err)
	require.Len(t, model.Weights, 2)

	for i, v := range vectors {
		p, err := model.Probability(v)
		require.NoError(t, err)
		if labels[i] {
			assert.Greater(t, p, 0.5, "正例の確率は0.5を超えるべき: index=%d", i)
		} else {
			assert.Less(t, p, 0.5, "負例の確率は0.5未満であるべき: index=%d", i)
		}
	}
}

func TestFitIsDeterministic(t *testing.T) {
	vectors, labels := separableDataset()

	modelA, err := Fit(vectors, labels, DefaultFitConfig())
	require.NoError(t, err)
	modelB, err := Fit(vectors, labels, DefaultFitConfig())
	require.NoError(t, err)

	// 初期値ゼロ・フルバッチのため完全に一致する
	assert.Equal(t, modelA.Weights, modelB.Weights)
	assert.Equal(t, modelA.Bias, modelB.Bias)
}

func TestFitValidation(t *testing.T) {
	tests := []struct {
		name    string
		vectors [][]float32
		labels  []bool
		cfg     FitConfig
	}{
		{
			name:    "空の入力",
			vectors: nil,
			labels:  nil,
			cfg:     DefaultFitConfig(),
		},
		{
			name:    "ベクトルとラベルの数が不一致",
			vectors: [][]float32{{1, 2}},
			labels:  []bool{true, false},
			cfg:     DefaultFitConfig(),
		},
		{
			name:    "次元の不一致",
			vectors: [][]float32{{1, 2}, {1, 2, 3}},
			labels:  []bool{true, false},
			cfg:     DefaultFitConfig(),
		},
		{
			name:    "片方のクラスしか存在しない",
			vectors: [][]float32{{1, 2}, {2, 3}},
			labels:  []bool{true, true},
			cfg:     DefaultFitConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.vectors, tt.labels, tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestProbabilityDimensionMismatch(t *testing.T) {
	model := &LinearModel{Weights: []float64{1, 2, 3}}

	_, err := model.Probability([]float32{1, 2})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSigmoidIsBounded(t *testing.T) {
	model := &LinearModel{Weights: []float64{1000}, Bias: 0}

	p, err := model.Probability([]float32{1000})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p, 1e-9)

	p, err = model.Probability([]float32{-1000})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, p, 1e-9)
}
