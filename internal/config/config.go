package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
)

// AppConfig 汇总运行服务所需的基础配置。
// 必填项缺失时 Load 直接报错，避免服务在缺少凭证的情况下静默降级。
type AppConfig struct {
	Port       string `env:"PORT" envDefault:"8080"`
	ListenAddr string `env:"LISTEN_ADDR"`
	GinMode    string `env:"GIN_MODE" envDefault:"release"`

	DatabasePath  string `env:"DATABASE_PATH" envDefault:"marketerai.db"`
	SessionSecret string `env:"SESSION_SECRET,required,notEmpty"`

	// OpenAI 接口凭证与模型设置
	OpenAIAPIKey  string `env:"OPENAI_API_KEY,required,notEmpty"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// 初始账号，均为空时跳过创建
	BootstrapUserName     string `env:"BOOTSTRAP_USER_NAME"`
	BootstrapUserPassword string `env:"BOOTSTRAP_USER_PASSWORD"`
}

// Load 从环境变量解析应用配置。
func Load() (AppConfig, error) {
	cfg := AppConfig{}
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("解析环境变量失败: %w", err)
	}

	if strings.TrimSpace(cfg.ListenAddr) == "" {
		cfg.ListenAddr = fmt.Sprintf(":%s", cfg.Port)
	}

	return cfg, nil
}
