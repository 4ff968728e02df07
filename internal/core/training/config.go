package training

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config は学習パイプラインのハイパーパラメータを保持する
type Config struct {
	// EvalRatio は評価用に取り分けるサンプルの割合
	EvalRatio float64 `yaml:"evalRatio"`
	// Seed は分割の再現性を保証する乱数シード
	Seed int64 `yaml:"seed"`
	// MinSamples は学習に必要な最小サンプル数
	MinSamples int `yaml:"minSamples"`

	// ロジスティック回帰の設定
	LearningRate float64 `yaml:"learningRate"`
	Epochs       int     `yaml:"epochs"`
	L2           float64 `yaml:"l2"`
}

// DefaultConfig はデフォルトの学習設定を返す
func DefaultConfig() Config {
	return Config{
		EvalRatio:    0.2,
		Seed:         42,
		MinSamples:   10,
		LearningRate: 0.1,
		Epochs:       500,
		L2:           0.01,
	}
}

// LoadConfigFile はYAMLファイルから学習設定を読み込む
// 指定されていない項目はデフォルト値のまま
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read training config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse training config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate は設定値の妥当性を検証する
func (c Config) Validate() error {
	if c.EvalRatio <= 0 || c.EvalRatio >= 1 {
		return fmt.Errorf("evalRatio must be within (0,1): %v", c.EvalRatio)
	}
	if c.MinSamples < 2 {
		return fmt.Errorf("minSamples must be at least 2: %d", c.MinSamples)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learningRate must be positive: %v", c.LearningRate)
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive: %d", c.Epochs)
	}
	return nil
}
