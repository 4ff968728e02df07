package labeling

// Resolve は投票の集合を多数決で1つのラベルに集約する
//
// 票数が同数の場合（双方ゼロを含む）は意図的に unresolved を返す。
// 同数は本物の意見の不一致を意味するため、タイブレークは行わない。
// 純粋関数であり、呼び出しごとに現在の投票行から再計算される。
// キャッシュされた集計値は一切信用しない。
func Resolve(votes []Vote) Label {
	var up, down int
	for _, v := range votes {
		switch v.Polarity {
		case PolarityRelevant:
			up++
		case PolarityNotRelevant:
			down++
		}
	}

	switch {
	case up > down:
		return LabelRelevant
	case down > up:
		return LabelNotRelevant
	default:
		return LabelUnresolved
	}
}
