package config

import (
	"encoding/json"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Load 加载配置
//
// 以默认配置为底，先读取 path 指定的文件（按扩展名识别 JSON / YAML），
// 再应用 NETTUNE_* 环境变量覆盖。path 为空时只读取环境变量。
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromJSON 从 JSON 数据创建配置，未出现的字段保留默认值
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Usage 返回环境变量说明
func Usage() (string, error) {
	return cleanenv.GetDescription(NewConfig(), nil)
}
