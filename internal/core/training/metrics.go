package training

import "github.com/jinford/signal-triage/internal/core/classifier"

// evaluate は評価用サンプルに対する分類性能を計算する
// 分母がゼロになる指標は0として扱う（評価セットが退化している場合でも落ちない）
func evaluate(model *classifier.LinearModel, samples []Sample, threshold float64) (Metrics, error) {
	var tp, fp, tn, fn int

	for _, s := range samples {
		p, err := model.Probability(s.Vector)
		if err != nil {
			return Metrics{}, err
		}
		predicted := p >= threshold

		switch {
		case predicted && s.Relevant:
			tp++
		case predicted && !s.Relevant:
			fp++
		case !predicted && !s.Relevant:
			tn++
		default:
			fn++
		}
	}

	var m Metrics
	total := tp + fp + tn + fn
	if total > 0 {
		m.Accuracy = float64(tp+tn) / float64(total)
	}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	return m, nil
}
