package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/afumu/wereport/store/agg"
	"github.com/rs/zerolog/log"
)

// contactProfiles 批量获取联系人的显示名和头像, 以及自己的头像。
// contact.db 缺失或查询失败都只降级: 显示名回退为联系人ID。
func (r *Repository) contactProfiles(ctx context.Context, talkers []string) (map[string]agg.ContactInfo, string) {
	info := make(map[string]agg.ContactInfo)

	dbPath, ok := r.index.ContactDBPath()
	if !ok {
		return info, ""
	}
	db, err := r.pool.GetConnection(dbPath)
	if err != nil {
		log.Warn().Err(err).Msg("打开 contact.db 失败, 显示名回退为联系人ID")
		return info, ""
	}

	selfAvatar := r.querySelfAvatar(ctx, db)

	if len(talkers) == 0 {
		return info, selfAvatar
	}

	placeholders := strings.Repeat("?,", len(talkers))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]interface{}, len(talkers))
	for i, t := range talkers {
		args[i] = t
	}

	query := fmt.Sprintf(
		"SELECT username, remark, nick_name, COALESCE(small_head_url,'') FROM contact WHERE username IN (%s)",
		placeholders)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Warn().Err(err).Msg("查询联系人信息失败, 显示名回退为联系人ID")
		return info, selfAvatar
	}
	defer rows.Close()

	for rows.Next() {
		var username, smallHeadURL string
		var remark, nickName sql.NullString
		if err := rows.Scan(&username, &remark, &nickName, &smallHeadURL); err != nil {
			continue
		}

		// 显示名优先备注, 其次昵称
		name := remark.String
		if name == "" {
			name = nickName.String
		}
		info[username] = agg.ContactInfo{Name: name, Avatar: smallHeadURL}
	}
	return info, selfAvatar
}

// querySelfAvatar 获取本账号自己的头像
func (r *Repository) querySelfAvatar(ctx context.Context, db *sql.DB) string {
	var url sql.NullString
	err := db.QueryRowContext(ctx,
		"SELECT small_head_url FROM contact WHERE username = ?", r.cleanedID).Scan(&url)
	if err != nil {
		return ""
	}
	return url.String
}
