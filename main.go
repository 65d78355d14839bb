package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/afumu/wereport/internal/config"
	"github.com/afumu/wereport/store"
	"github.com/afumu/wereport/web"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// --- 加载配置 ---
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// 文件不存在，尝试创建默认配置
			if err := viper.SafeWriteConfig(); err != nil {
				log.Warn().Err(err).Msg("无法创建默认 .env 文件")
			} else {
				log.Info().Msg("已自动创建并初始化 .env 配置文件")
			}
		} else {
			log.Warn().Err(err).Msg("读取 .env 文件出错, 将使用默认值或环境变量")
		}
	}

	conf, err := config.Load(viper.GetViper())
	if err != nil {
		log.Fatal().Err(err).Msg("加载配置失败")
	}

	log.Info().Str("work_dir", conf.WorkDir).Msg("使用工作目录")

	// --- 初始化 Store ---
	newStore, err := store.NewStore(conf.WorkDir, conf.AccountID)
	if err != nil {
		log.Fatal().Err(err).Msg("初始化 store 失败")
	}
	defer newStore.Close()
	log.Info().Msg("Store 初始化成功")

	// --- 初始化 Web 服务 ---
	webService := web.NewService(newStore, &web.Config{ListenAddr: conf.ListenAddr})

	// --- 启动服务 ---
	if err := webService.Start(); err != nil {
		log.Fatal().Err(err).Msg("启动 web 服务失败")
	}

	// --- 等待中断信号以实现优雅关闭 ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("接收到关闭信号，正在关闭服务...")

	// --- 关闭服务 ---
	if err := webService.Stop(); err != nil {
		log.Fatal().Err(err).Msg("关闭 web 服务时出错")
	}
	log.Info().Msg("服务已成功关闭")
}
