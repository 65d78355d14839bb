package repo

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/afumu/wereport/store/scan"
	"github.com/rs/zerolog/log"
)

// AvailableYears 探测所有分片中存在消息的年份, 按降序返回。
// 单表的探测失败直接跳过, 年份限定在 [2010, 当前年份]。
func (r *Repository) AvailableYears(ctx context.Context) ([]int, error) {
	shards := r.index.Shards()
	currentYear := time.Now().Year()
	yearSet := make(map[int]struct{})

	for _, shard := range shards {
		db, err := r.pool.GetConnection(shard.FilePath)
		if err != nil {
			log.Warn().Err(err).Str("db", shard.FilePath).Msg("打开消息分片失败，跳过")
			continue
		}

		tables, err := scan.ListMessageTables(ctx, db)
		if err != nil {
			continue
		}

		for _, tableName := range tables {
			minYear, maxYear, ok := tableYearRange(ctx, db, tableName)
			if !ok {
				continue
			}
			for y := minYear; y <= maxYear; y++ {
				if y >= 2010 && y <= currentYear {
					yearSet[y] = struct{}{}
				}
			}
		}
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

func tableYearRange(ctx context.Context, db *sql.DB, tableName string) (int, int, bool) {
	var minTime, maxTime sql.NullInt64
	query := fmt.Sprintf(
		`SELECT MIN(create_time), MAX(create_time) FROM "%s" WHERE create_time > 0`, tableName)
	if err := db.QueryRowContext(ctx, query).Scan(&minTime, &maxTime); err != nil {
		return 0, 0, false
	}
	if !minTime.Valid || !maxTime.Valid {
		return 0, 0, false
	}
	return time.Unix(minTime.Int64, 0).Year(), time.Unix(maxTime.Int64, 0).Year(), true
}
