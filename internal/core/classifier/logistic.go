package classifier

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch はベクトル次元がモデルと一致しない場合のエラー
var ErrDimensionMismatch = errors.New("vector dimension does not match model")

// LinearModel はロジスティック回帰の学習済みパラメータを表す
// 重みとバイアスのみを持つ純粋なデータ構造で、学習元とは独立に適用できる
type LinearModel struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// Dimension は入力ベクトルの次元数を返す
func (m *LinearModel) Dimension() int {
	return len(m.Weights)
}

// Probability は入力ベクトルに対する正例（relevant）の確率を返す
func (m *LinearModel) Probability(vector []float32) (float64, error) {
	if len(vector) != len(m.Weights) {
		return 0, fmt.Errorf("%w: model=%d input=%d", ErrDimensionMismatch, len(m.Weights), len(vector))
	}

	z := m.Bias
	for i, w := range m.Weights {
		z += w * float64(vector[i])
	}

	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	// 大きな |z| でのオーバーフローを避ける
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// FitConfig はロジスティック回帰の学習設定
type FitConfig struct {
	LearningRate float64
	Epochs       int
	L2           float64
	// BalanceClasses が真の場合、クラス頻度の逆数で勾配を重み付けする
	// （不均衡な投票データでも少数クラスが押し潰されないようにする）
	BalanceClasses bool
}

// DefaultFitConfig はデフォルトの学習設定を返す
func DefaultFitConfig() FitConfig {
	return FitConfig{
		LearningRate:   0.1,
		Epochs:         500,
		L2:             0.01,
		BalanceClasses: true,
	}
}

// Fit はフルバッチ勾配降下法でロジスティック回帰を学習する
// 初期値ゼロ・フルバッチのため、同じ入力に対して完全に決定的である
func Fit(vectors [][]float32, labels []bool, cfg FitConfig) (*LinearModel, error) {
	if len(vectors) == 0 {
		return nil, errors.New("no training vectors")
	}
	if len(vectors) != len(labels) {
		return nil, fmt.Errorf("vectors and labels length mismatch: %d != %d", len(vectors), len(labels))
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("inconsistent vector dimension at index %d: %d != %d", i, len(v), dim)
		}
	}

	if cfg.LearningRate <= 0 {
		return nil, fmt.Errorf("learning rate must be positive: %v", cfg.LearningRate)
	}
	if cfg.Epochs <= 0 {
		return nil, fmt.Errorf("epochs must be positive: %d", cfg.Epochs)
	}

	// クラス重み（balanced）: w_c = n / (2 * n_c)
	posWeight, negWeight := 1.0, 1.0
	if cfg.BalanceClasses {
		var positives int
		for _, l := range labels {
			if l {
				positives++
			}
		}
		negatives := len(labels) - positives
		if positives == 0 || negatives == 0 {
			return nil, errors.New("balanced fit requires both classes")
		}
		n := float64(len(labels))
		posWeight = n / (2 * float64(positives))
		negWeight = n / (2 * float64(negatives))
	}

	model := &LinearModel{
		Weights: make([]float64, dim),
	}
	grad := make([]float64, dim)

	n := float64(len(vectors))
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		for i := range grad {
			grad[i] = 0
		}
		gradBias := 0.0

		for i, v := range vectors {
			z := model.Bias
			for j, w := range model.Weights {
				z += w * float64(v[j])
			}
			p := sigmoid(z)

			y := 0.0
			sampleWeight := negWeight
			if labels[i] {
				y = 1.0
				sampleWeight = posWeight
			}

			diff := sampleWeight * (p - y)
			for j := range grad {
				grad[j] += diff * float64(v[j])
			}
			gradBias += diff
		}

		for j := range model.Weights {
			model.Weights[j] -= cfg.LearningRate * (grad[j]/n + cfg.L2*model.Weights[j])
		}
		model.Bias -= cfg.LearningRate * gradBias / n
	}

	return model, nil
}
