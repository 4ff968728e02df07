package training

import (
	"math"
	"math/rand"
	"sort"
)

// stratifiedSplit はサンプルをクラス比率を保ったまま学習用と評価用に分割する
// 同じシードに対して常に同じ分割を返す（サンプルの入力順にも依存しない）
func stratifiedSplit(samples []Sample, evalRatio float64, seed int64) (train, eval []Sample) {
	var positives, negatives []Sample
	for _, s := range samples {
		if s.Relevant {
			positives = append(positives, s)
		} else {
			negatives = append(negatives, s)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	trainPos, evalPos := splitClass(positives, evalRatio, rng)
	trainNeg, evalNeg := splitClass(negatives, evalRatio, rng)

	train = append(trainPos, trainNeg...)
	eval = append(evalPos, evalNeg...)
	return train, eval
}

func splitClass(samples []Sample, evalRatio float64, rng *rand.Rand) (train, eval []Sample) {
	if len(samples) == 0 {
		return nil, nil
	}

	// 入力順に依存しないようIDで安定ソートしてからシャッフルする
	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ItemID.String() < sorted[j].ItemID.String()
	})
	rng.Shuffle(len(sorted), func(i, j int) {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	})

	evalCount := int(math.Round(evalRatio * float64(len(sorted))))
	// 学習側に各クラス最低1サンプルを残す
	if evalCount >= len(sorted) {
		evalCount = len(sorted) - 1
	}

	return sorted[evalCount:], sorted[:evalCount]
}
