package training

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("指定した項目だけ上書きされる", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "training.yaml")
		content := "minSamples: 20\nlearningRate: 0.05\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)

		assert.Equal(t, 20, cfg.MinSamples)
		assert.InDelta(t, 0.05, cfg.LearningRate, 1e-9)
		// 未指定の項目はデフォルトのまま
		assert.InDelta(t, 0.2, cfg.EvalRatio, 1e-9)
		assert.Equal(t, int64(42), cfg.Seed)
		assert.Equal(t, 500, cfg.Epochs)
	})

	t.Run("存在しないファイルはエラー", func(t *testing.T) {
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("不正な値は読み込み時に弾く", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "training.yaml")
		require.NoError(t, os.WriteFile(path, []byte("evalRatio: 1.5\n"), 0o644))

		_, err := LoadConfigFile(path)
		require.Error(t, err)
	})
}
