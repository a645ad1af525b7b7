package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 读取 configs/config.yaml 并填充 Cfg。
// 环境变量可覆盖同名配置项，层级用下划线分隔（如 ATRIUM_SERVER_PORT）
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	viper.SetEnvPrefix("atrium")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("feed.article_ratio", 0.5)
	viper.SetDefault("feed.media_ratio", 0.5)
	viper.SetDefault("feed.unified_article_ratio", 0.4)
	viper.SetDefault("feed.unified_media_ratio", 0.5)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	Cfg = &cfg
	return nil
}
