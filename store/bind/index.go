package bind

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/afumu/wereport/store/strategy"
	"github.com/rs/zerolog/log"
)

var (
	// ErrNoSessionIndex 表示账号目录中缺少 session.db。
	ErrNoSessionIndex = errors.New("未找到 session.db")
	// ErrNoDatabaseFound 表示账号目录中没有任何消息分片文件。
	ErrNoDatabaseFound = errors.New("未找到消息数据库")
)

// Shard 代表一个物理消息分片 (例如 msg0.db)
type Shard struct {
	FilePath string
	Index    string // 从文件名提取的分片序号, 可能为空
}

// ShardIndex 负责发现账号目录下的数据库文件并维护分片清单。
// 缺少 contact.db 只会降级 (显示名回退为ID), 缺少 session.db 则是致命错误。
type ShardIndex struct {
	mu        sync.RWMutex
	baseDir   string
	strategy  strategy.Strategy
	shards    []Shard
	sessionDB string
	contactDB string
}

// NewShardIndex 创建一个新的分片索引
func NewShardIndex(baseDir string, strat strategy.Strategy) *ShardIndex {
	return &ShardIndex{
		baseDir:  baseDir,
		strategy: strat,
	}
}

// Rebuild 扫描账号目录并重建分片清单。
func (x *ShardIndex) Rebuild() error {
	log.Info().Str("baseDir", x.baseDir).Msg("开始重建分片索引...")

	entries, err := os.ReadDir(x.baseDir)
	if err != nil {
		return ErrNoDatabaseFound
	}

	var shards []Shard
	var sessionDB, contactDB string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		meta, match := x.strategy.Identify(entry.Name())
		if !match {
			continue
		}

		fullPath := filepath.Join(x.baseDir, entry.Name())
		switch meta.Type {
		case strategy.Message:
			shards = append(shards, Shard{FilePath: fullPath, Index: meta.Index})
			log.Info().Str("file", entry.Name()).Msg("识别到消息分片")
		case strategy.Session:
			sessionDB = fullPath
		case strategy.Contact:
			contactDB = fullPath
		}
	}

	if sessionDB == "" {
		return ErrNoSessionIndex
	}
	if len(shards) == 0 {
		return ErrNoDatabaseFound
	}

	// 按文件名排序, 保证扫描顺序稳定
	sort.Slice(shards, func(i, j int) bool {
		return shards[i].FilePath < shards[j].FilePath
	})

	if contactDB == "" {
		log.Warn().Msg("未找到 contact.db, 显示名将回退为联系人ID")
	}

	x.mu.Lock()
	x.shards = shards
	x.sessionDB = sessionDB
	x.contactDB = contactDB
	x.mu.Unlock()

	log.Info().Int("count", len(shards)).Msg("分片索引已建立")
	return nil
}

// BaseDir 返回账号目录
func (x *ShardIndex) BaseDir() string {
	return x.baseDir
}

// Shards 返回所有已发现的消息分片
func (x *ShardIndex) Shards() []Shard {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]Shard, len(x.shards))
	copy(out, x.shards)
	return out
}

// SessionDBPath 返回 session.db 的路径
func (x *ShardIndex) SessionDBPath() (string, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.sessionDB == "" {
		return "", ErrNoSessionIndex
	}
	return x.sessionDB, nil
}

// ContactDBPath 返回 contact.db 的路径, 第二个返回值表示其是否存在。
func (x *ShardIndex) ContactDBPath() (string, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.contactDB, x.contactDB != ""
}
