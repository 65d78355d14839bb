package scan

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/afumu/wereport/internal/model"
	"github.com/afumu/wereport/store/bind"
	"github.com/afumu/wereport/store/core"
	"github.com/afumu/wereport/store/schema"
	"github.com/rs/zerolog/log"
)

const defaultWorkers = 4

// TableHash 计算联系人ID对应的消息表哈希 (表名为 Msg_<md5>)。
func TableHash(talker string) string {
	h := md5.Sum([]byte(talker))
	return hex.EncodeToString(h[:])
}

// Options 控制一次扫描。
type Options struct {
	StartTime  int64             // 年度起点 (含)
	EndTime    int64             // 年度终点 (含)
	OwnID      string            // 本账号ID (规整后), 用于方向判定
	HashToPeer map[string]string // 表哈希 -> 私聊联系人ID
	Workers    int               // 并发扫描的分片数, <=0 时取默认值
}

// Scanner 按分片扫描消息表, 产出按时间升序的消息事件流。
type Scanner struct {
	pool   *core.ConnectionPool
	prober *schema.Prober
}

// NewScanner 创建一个新的扫描器
func NewScanner(pool *core.ConnectionPool, prober *schema.Prober) *Scanner {
	return &Scanner{pool: pool, prober: prober}
}

// tableScan 是单个消息表的扫描产物
type tableScan struct {
	result  model.TableResult
	records []model.MessageRecord
}

// shardScan 是单个分片的扫描产物
type shardScan struct {
	tables []tableScan
}

// Scan 并发扫描所有分片, 并按固定顺序把消息事件交给 sink。
// 分片之间并发执行 (有界工作池), 单个分片内的表在同一连接上串行处理;
// 事件回放顺序固定为 分片路径序 x 表名序 x 时间升序, 保证同一数据两次
// 扫描的回放字节一致。单表的查询失败只记入诊断, 不影响其他表。
func (s *Scanner) Scan(ctx context.Context, shards []bind.Shard, opts Options, sink func(model.MessageRecord)) (model.RunStats, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	results := make([]shardScan, len(shards))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i, shard := range shards {
		wg.Add(1)
		go func(slot int, sh bind.Shard) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[slot] = s.scanShard(ctx, sh, opts)
		}(i, shard)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		// 取消时整体丢弃, 不提供部分聚合结果
		return model.RunStats{}, err
	}

	var stats model.RunStats
	for _, sr := range results {
		for _, ts := range sr.tables {
			switch ts.result.Status {
			case model.TableOK:
				stats.TablesProcessed++
			case model.TableSkipped:
				stats.TablesSkipped++
			case model.TableFailed:
				stats.TablesFailed++
			}
			stats.TableResults = append(stats.TableResults, ts.result)
			for _, rec := range ts.records {
				sink(rec)
			}
		}
	}
	return stats, nil
}

// scanShard 扫描单个分片中所有匹配到私聊联系人的消息表
func (s *Scanner) scanShard(ctx context.Context, shard bind.Shard, opts Options) shardScan {
	var sr shardScan

	db, err := s.pool.GetConnection(shard.FilePath)
	if err != nil {
		log.Warn().Err(err).Str("db", shard.FilePath).Msg("打开消息分片失败，跳过")
		return sr
	}

	caps := s.prober.ProbeShard(ctx, db, shard.FilePath, opts.OwnID)

	tables, err := ListMessageTables(ctx, db)
	if err != nil {
		log.Warn().Err(err).Str("db", shard.FilePath).Msg("枚举消息表失败，跳过")
		return sr
	}

	for _, tableName := range tables {
		if ctx.Err() != nil {
			return sr
		}

		// 表名中的哈希映射不到私聊联系人时直接忽略 (多半是群聊)
		talker, ok := opts.HashToPeer[strings.TrimPrefix(tableName, "Msg_")]
		if !ok {
			continue
		}

		ts := s.scanTable(ctx, db, shard.FilePath, tableName, talker, caps, opts)
		sr.tables = append(sr.tables, ts)
	}
	return sr
}

// scanTable 在单个消息表上执行年度范围查询
func (s *Scanner) scanTable(ctx context.Context, db *sql.DB, shardPath, tableName, talker string, caps schema.ShardCaps, opts Options) tableScan {
	ts := tableScan{
		result: model.TableResult{
			Shard:  shardPath,
			Table:  tableName,
			Talker: talker,
		},
	}

	// 没有 Name2Id 映射就无法判定方向, 整表跳过
	if !caps.HasLookup {
		ts.result.Status = model.TableSkipped
		ts.result.Reason = "缺少 Name2Id 方向映射"
		return ts
	}

	tableCaps, err := schema.ProbeTable(ctx, db, tableName)
	if err != nil {
		log.Warn().Err(err).Str("table", tableName).Msg("探测内容列失败，跳过该表")
		ts.result.Status = model.TableFailed
		ts.result.Reason = err.Error()
		return ts
	}

	records, err := queryTable(ctx, db, tableName, talker, caps.MyRowID, tableCaps, opts)
	if err != nil {
		log.Warn().Err(err).Str("table", tableName).Msg("查询消息表失败，跳过该表")
		ts.result.Status = model.TableFailed
		ts.result.Reason = err.Error()
		return ts
	}

	ts.result.Status = model.TableOK
	ts.result.Rows = len(records)
	ts.records = records
	return ts
}

func queryTable(ctx context.Context, db *sql.DB, tableName, talker string, myRowID int64, caps schema.TableCaps, opts Options) ([]model.MessageRecord, error) {
	contentField := ""
	if caps.ContentColumn != "" {
		contentField = fmt.Sprintf(`, "%s"`, caps.ContentColumn)
	}

	query := fmt.Sprintf(`
		SELECT create_time,
			CASE WHEN real_sender_id = ? THEN 1 ELSE 0 END AS is_sent,
			strftime('%%Y-%%m-%%d', create_time, 'unixepoch', 'localtime') AS day,
			CAST(strftime('%%m', create_time, 'unixepoch', 'localtime') AS INTEGER) AS month,
			CAST(strftime('%%H', create_time, 'unixepoch', 'localtime') AS INTEGER) AS hour,
			CAST(strftime('%%w', create_time, 'unixepoch', 'localtime') AS INTEGER) AS weekday,
			local_type%s
		FROM "%s"
		WHERE create_time >= ? AND create_time <= ?
		ORDER BY create_time ASC`, contentField, tableName)

	rows, err := db.QueryContext(ctx, query, myRowID, opts.StartTime, opts.EndTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.MessageRecord
	for rows.Next() {
		var (
			createTime int64
			isSent     int
			day        string
			month      int
			hour       int
			weekday    int
			localType  int64
			content    sql.NullString
		)

		dest := []interface{}{&createTime, &isSent, &day, &month, &hour, &weekday, &localType}
		if caps.ContentColumn != "" {
			dest = append(dest, &content)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		// strftime 的 %w 以周日为 0, 统一换算成周一为 0
		weekdayIdx := weekday - 1
		if weekday == 0 {
			weekdayIdx = 6
		}

		records = append(records, model.MessageRecord{
			Talker:     talker,
			Time:       createTime,
			IsSent:     isSent == 1,
			Day:        day,
			Month:      month,
			Hour:       hour,
			Weekday:    weekdayIdx,
			Type:       localType,
			Content:    content.String,
			HasContent: caps.ContentColumn != "",
		})
	}
	return records, rows.Err()
}

// ListMessageTables 枚举分片中的所有按联系人分表, 按表名排序。
func ListMessageTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name LIKE 'Msg_%' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}
