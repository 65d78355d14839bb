package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/afumu/wereport/internal/model"
	"github.com/afumu/wereport/store/bind"
	"github.com/afumu/wereport/store/core"
	"github.com/afumu/wereport/store/locate"
	"github.com/afumu/wereport/store/repo"
	"github.com/afumu/wereport/store/strategy"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultStore 是 Store 接口的默认实现
type DefaultStore struct {
	pool    *core.ConnectionPool
	index   *bind.ShardIndex
	watcher *core.Watcher
	repo    *repo.Repository
}

// NewStore 初始化一个新的存储实例。
// baseDir 是包含各账号子目录的根目录, accountID 是本账号的逻辑ID。
// 账号目录解析和分片发现都在这里一次性完成。
func NewStore(baseDir, accountID string) (*DefaultStore, error) {
	if accountID == "" {
		return nil, ErrConfigMissing
	}

	// 1. 解析账号目录 (兼容目录命名漂移)
	accountDir, err := locate.ResolveAccountDir(baseDir, accountID)
	if err != nil {
		return nil, fmt.Errorf("解析账号 %s 的数据目录失败: %w", accountID, err)
	}
	dataDir := filepath.Join(baseDir, accountDir)
	log.Info().Str("dir", dataDir).Msg("账号目录已解析")

	// 2. 初始化核心组件
	pool := core.NewConnectionPool(dataDir)
	watcher, err := core.NewWatcher(dataDir)
	if err != nil {
		pool.CloseAll()
		return nil, err
	}

	// 3. 策略层与分片索引
	strat := strategy.NewV4()
	index := bind.NewShardIndex(dataDir, strat)
	if err := index.Rebuild(); err != nil {
		pool.CloseAll()
		watcher.Stop()
		return nil, err
	}

	// 4. 初始化仓储
	r := repo.New(index, pool, accountID)

	// 5. 启动文件监听
	watcher.Start()

	// 注册自动刷新逻辑：解密管线产出新分片时，重建索引
	watcher.AddCallback(func(event fsnotify.Event) {
		if event.Op&fsnotify.Create == fsnotify.Create {
			if meta, ok := strat.Identify(filepath.Base(event.Name)); ok && meta.Type == strategy.Message {
				_ = index.Rebuild()
			}
		}
	})

	return &DefaultStore{
		pool:    pool,
		index:   index,
		watcher: watcher,
		repo:    r,
	}, nil
}

func (s *DefaultStore) Close() error {
	s.watcher.Stop()
	return s.pool.CloseAll()
}

func (s *DefaultStore) GenerateReport(ctx context.Context, year int) (*model.AnnualReport, error) {
	return s.repo.GenerateReport(ctx, year)
}

func (s *DefaultStore) AvailableYears(ctx context.Context) ([]int, error) {
	return s.repo.AvailableYears(ctx)
}

func (s *DefaultStore) Watch(callback func(event fsnotify.Event) error) error {
	s.watcher.AddCallback(func(event fsnotify.Event) {
		_ = callback(event)
	})
	return nil
}

// Reload 重新加载存储（重建索引、刷新连接等）
func (s *DefaultStore) Reload() error {
	// 1. 关闭所有现有连接（这将强制下次查询时重新打开连接）
	if err := s.pool.CloseAll(); err != nil {
		return fmt.Errorf("reload: close all connections failed: %w", err)
	}

	// 2. 重新扫描目录, 重建分片索引
	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("reload: rebuild index failed: %w", err)
	}

	return nil
}
