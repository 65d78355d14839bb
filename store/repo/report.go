package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/afumu/wereport/internal/model"
	"github.com/afumu/wereport/store/agg"
	"github.com/afumu/wereport/store/bind"
	"github.com/afumu/wereport/store/scan"
	"github.com/rs/zerolog/log"
)

// GenerateReport 生成指定年份的年度报告。
// 整个计算是一趟流式扫描: 发现分片 -> 探测模式 -> 扫描消息 -> 聚合 -> 组装。
// 单表的失败只记入诊断并跳过; 致命错误 (缺 session.db、没有分片) 直接返回。
func (r *Repository) GenerateReport(ctx context.Context, year int) (*model.AnnualReport, error) {
	shards := r.index.Shards()
	if len(shards) == 0 {
		return nil, bind.ErrNoDatabaseFound
	}

	peers, err := r.privatePeers(ctx)
	if err != nil {
		return nil, err
	}

	// 表哈希 -> 联系人ID 映射, 每个私聊联系人只算一次
	hashToPeer := make(map[string]string, len(peers))
	for _, peer := range peers {
		hashToPeer[scan.TableHash(peer)] = peer
	}

	startTime := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
	endTime := time.Date(year, 12, 31, 23, 59, 59, 0, time.Local)

	aggregator := agg.New(nil)
	stats, err := r.scanner.Scan(ctx, shards, scan.Options{
		StartTime:  startTime.Unix(),
		EndTime:    endTime.Unix(),
		OwnID:      r.cleanedID,
		HashToPeer: hashToPeer,
	}, aggregator.Consume)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("year", year).
		Int("messages", aggregator.Total()).
		Int("tables", stats.TablesProcessed).
		Int("skipped", stats.TablesSkipped).
		Int("failed", stats.TablesFailed).
		Msg("年度扫描完成")

	info, selfAvatar := r.contactProfiles(ctx, aggregator.Talkers())

	return aggregator.Assemble(year, info, selfAvatar, &stats), nil
}

// privatePeers 从 session.db 枚举私聊联系人。
// 排除群聊、文件传输助手和公众号, 同时排除自己。
func (r *Repository) privatePeers(ctx context.Context) ([]string, error) {
	dbPath, err := r.index.SessionDBPath()
	if err != nil {
		return nil, err
	}
	db, err := r.pool.GetConnection(dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开 session.db 失败: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT username FROM SessionTable
		WHERE username NOT LIKE '%@chatroom'
		AND username != 'filehelper'
		AND username NOT LIKE 'gh_%'`)
	if err != nil {
		return nil, fmt.Errorf("查询会话列表失败: %w", err)
	}
	defer rows.Close()

	ownLower := strings.ToLower(r.accountID)
	cleanedLower := strings.ToLower(r.cleanedID)

	var peers []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			continue
		}
		lower := strings.ToLower(username)
		if lower == ownLower || lower == cleanedLower {
			continue
		}
		peers = append(peers, username)
	}
	return peers, rows.Err()
}
