package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config 保存服务运行所需的全部配置。
// 字段通过 mapstructure 标签从 viper 读入。
type Config struct {
	WorkDir    string `mapstructure:"work_dir"`    // 包含已解密账号目录的根目录
	AccountID  string `mapstructure:"wxid"`        // 本账号的微信ID
	ListenAddr string `mapstructure:"listen_addr"` // 监听地址, 优先于 Port
	Port       string `mapstructure:"port"`
}

// Load 从 viper 实例中读取配置并填充默认值。
func Load(v *viper.Viper) (Config, error) {
	var c Config

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &c,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return c, fmt.Errorf("创建配置解码器失败: %w", err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return c, fmt.Errorf("解析配置失败: %w", err)
	}

	if c.WorkDir == "" {
		c.WorkDir = "data"
	}
	if c.ListenAddr == "" {
		if c.Port != "" {
			c.ListenAddr = "127.0.0.1:" + c.Port
		} else {
			c.ListenAddr = "127.0.0.1:5300"
		}
	}
	return c, nil
}
