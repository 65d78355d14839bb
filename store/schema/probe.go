package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
)

// ContentCandidates 是内容列的候选名称, 按优先级排列, 取第一个命中的。
var ContentCandidates = []string{
	"display_content",
	"message_content",
	"content",
	"msg_content",
	"WCDB_CT_message_content",
}

// ShardCaps 描述一个分片文件的方向判定能力。
// 没有 Name2Id 映射的分片无法区分收发方向, 其中的表会被整体跳过。
type ShardCaps struct {
	HasLookup bool  // Name2Id 表中是否存在本账号的映射
	MyRowID   int64 // 本账号在 Name2Id 中的 rowid
}

// TableCaps 描述单个消息表的内容能力。
// ContentColumn 为空表示该表只做方向/时间统计, 不提取常用语。
type TableCaps struct {
	ContentColumn string
}

// Prober 负责探测分片和表的模式能力。
// 本账号 rowid 的查询结果按 (文件, 账号ID) 缓存, 值允许为"不存在"。
type Prober struct {
	mu         sync.Mutex
	rowIDCache map[string]ShardCaps
}

// NewProber 创建一个新的模式探测器
func NewProber() *Prober {
	return &Prober{
		rowIDCache: make(map[string]ShardCaps),
	}
}

// ProbeShard 探测分片文件的方向判定能力。
func (p *Prober) ProbeShard(ctx context.Context, db *sql.DB, filePath, ownID string) ShardCaps {
	key := filePath + "\x00" + ownID

	p.mu.Lock()
	if caps, ok := p.rowIDCache[key]; ok {
		p.mu.Unlock()
		return caps
	}
	p.mu.Unlock()

	caps := probeLookup(ctx, db, ownID)

	p.mu.Lock()
	p.rowIDCache[key] = caps
	p.mu.Unlock()
	return caps
}

func probeLookup(ctx context.Context, db *sql.DB, ownID string) ShardCaps {
	var name string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='Name2Id'").Scan(&name)
	if err != nil {
		return ShardCaps{}
	}

	var rowID int64
	err = db.QueryRowContext(ctx,
		"SELECT rowid FROM Name2Id WHERE user_name = ?", ownID).Scan(&rowID)
	if err != nil {
		return ShardCaps{}
	}
	return ShardCaps{HasLookup: true, MyRowID: rowID}
}

// ProbeTable 探测消息表的内容列。
// 候选列名按优先级逐个比对 (忽略大小写), 都不存在时返回空描述。
func ProbeTable(ctx context.Context, db *sql.DB, tableName string) (TableCaps, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info("%s")`, tableName))
	if err != nil {
		return TableCaps{}, err
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			continue
		}
		columns[strings.ToLower(name)] = true
	}

	for _, candidate := range ContentCandidates {
		if columns[strings.ToLower(candidate)] {
			return TableCaps{ContentColumn: candidate}, nil
		}
	}
	return TableCaps{}, nil
}
