package repo

import (
	"github.com/afumu/wereport/store/bind"
	"github.com/afumu/wereport/store/core"
	"github.com/afumu/wereport/store/locate"
	"github.com/afumu/wereport/store/scan"
	"github.com/afumu/wereport/store/schema"
)

// Repository 是数据访问层的入口，聚合了分片索引、连接池和扫描器
type Repository struct {
	index     *bind.ShardIndex
	pool      *core.ConnectionPool
	scanner   *scan.Scanner
	accountID string // 配置的原始账号ID
	cleanedID string // 规整后的账号ID, 用于 Name2Id 与自己头像的查询
}

// New 创建一个新的 Repository
func New(index *bind.ShardIndex, pool *core.ConnectionPool, accountID string) *Repository {
	return &Repository{
		index:     index,
		pool:      pool,
		scanner:   scan.NewScanner(pool, schema.NewProber()),
		accountID: accountID,
		cleanedID: locate.CleanAccountID(accountID),
	}
}
