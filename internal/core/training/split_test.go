package training

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSamples(t *testing.T, positives, negatives int) []Sample {
	t.Helper()
	samples := make([]Sample, 0, positives+negatives)
	for i := 0; i < positives; i++ {
		samples = append(samples, Sample{
			ItemID:   uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", i)),
			Vector:   []float32{1, 0},
			Relevant: true,
		})
	}
	for i := 0; i < negatives; i++ {
		samples = append(samples, Sample{
			ItemID:   uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0001-%012d", i)),
			Vector:   []float32{0, 1},
			Relevant: false,
		})
	}
	return samples
}

func countByClass(samples []Sample) (positives, negatives int) {
	for _, s := range samples {
		if s.Relevant {
			positives++
		} else {
			negatives++
		}
	}
	return positives, negatives
}

func TestStratifiedSplit(t *testing.T) {
	t.Run("クラス比率を保って分割する", func(t *testing.T) {
		samples := makeSamples(t, 10, 10)

		train, eval := stratifiedSplit(samples, 0.2, 42)

		require.Len(t, train, 16)
		require.Len(t, eval, 4)

		trainPos, trainNeg := countByClass(train)
		evalPos, evalNeg := countByClass(eval)
		assert.Equal(t, 8, trainPos)
		assert.Equal(t, 8, trainNeg)
		assert.Equal(t, 2, evalPos)
		assert.Equal(t, 2, evalNeg)
	})

	t.Run("同じシードなら同じ分割を返す", func(t *testing.T) {
		samples := makeSamples(t, 20, 15)

		train1, eval1 := stratifiedSplit(samples, 0.2, 42)
		train2, eval2 := stratifiedSplit(samples, 0.2, 42)

		assert.Equal(t, train1, train2)
		assert.Equal(t, eval1, eval2)
	})

	t.Run("入力順に依存しない", func(t *testing.T) {
		samples := makeSamples(t, 10, 10)
		reversed := make([]Sample, len(samples))
		for i, s := range samples {
			reversed[len(samples)-1-i] = s
		}

		train1, eval1 := stratifiedSplit(samples, 0.2, 42)
		train2, eval2 := stratifiedSplit(reversed, 0.2, 42)

		assert.Equal(t, train1, train2)
		assert.Equal(t, eval1, eval2)
	})

	t.Run("少数クラスでも学習側に最低1サンプル残す", func(t *testing.T) {
		samples := makeSamples(t, 1, 9)

		train, eval := stratifiedSplit(samples, 0.5, 42)

		trainPos, _ := countByClass(train)
		assert.Equal(t, 1, trainPos, "正例は学習側に残る")
		evalPos, _ := countByClass(eval)
		assert.Equal(t, 0, evalPos)
	})
}
