package repo

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/afumu/wereport/store/bind"
	"github.com/afumu/wereport/store/core"
	"github.com/afumu/wereport/store/scan"
	"github.com/afumu/wereport/store/strategy"
	_ "github.com/mattn/go-sqlite3"
)

const (
	fixtureAccountID = "wxid_me_ab12" // 配置的原始ID, 规整后为 wxid_me
	fixtureOwnID     = "wxid_me"
	fixturePeer      = "wxid_friend001"
)

// setupAccountDir 构造一个完整的账号目录: session.db + contact.db + msg0.db
func setupAccountDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	mustExec := func(db *sql.DB, query string, args ...interface{}) {
		t.Helper()
		if _, err := db.Exec(query, args...); err != nil {
			t.Fatalf("执行 %q 失败: %v", query, err)
		}
	}
	open := func(name string) *sql.DB {
		t.Helper()
		db, err := sql.Open("sqlite3", filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("创建 %s 失败: %v", name, err)
		}
		return db
	}

	// session.db: 私聊好友 + 应被排除的会话
	sessionDB := open("session.db")
	mustExec(sessionDB, "CREATE TABLE SessionTable (username TEXT)")
	for _, u := range []string{fixturePeer, "12345@chatroom", "filehelper", "gh_news", fixtureOwnID} {
		mustExec(sessionDB, "INSERT INTO SessionTable (username) VALUES (?)", u)
	}
	sessionDB.Close()

	// contact.db: 好友的备注和头像, 以及自己的头像
	contactDB := open("contact.db")
	mustExec(contactDB, `CREATE TABLE contact (
		username TEXT, remark TEXT, nick_name TEXT, small_head_url TEXT)`)
	mustExec(contactDB, "INSERT INTO contact VALUES (?, ?, ?, ?)",
		fixturePeer, "阿明", "小明", "http://x/friend.jpg")
	mustExec(contactDB, "INSERT INTO contact VALUES (?, ?, ?, ?)",
		fixtureOwnID, "", "我自己", "http://x/self.jpg")
	contactDB.Close()

	// msg0.db: Name2Id + 按联系人分表的消息
	msgDB := open("msg0.db")
	mustExec(msgDB, "CREATE TABLE Name2Id (user_name TEXT)")
	mustExec(msgDB, "INSERT INTO Name2Id (user_name) VALUES (?), (?)", fixturePeer, fixtureOwnID)

	table := "Msg_" + scan.TableHash(fixturePeer)
	mustExec(msgDB, `CREATE TABLE "`+table+`" (
		local_id INTEGER PRIMARY KEY,
		create_time INTEGER,
		real_sender_id INTEGER,
		local_type INTEGER,
		display_content TEXT)`)

	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)
	insert := func(ts time.Time, sender int, content string) {
		mustExec(msgDB, `INSERT INTO "`+table+`"
			(create_time, real_sender_id, local_type, display_content)
			VALUES (?, ?, ?, ?)`, ts.Unix(), sender, 1, content)
	}
	insert(base, 1, "在吗")
	insert(base.Add(time.Minute), 2, "在的")
	insert(base.Add(2*time.Minute), 2, "怎么了")
	// 去年的消息: 不计入 2024 年报告, 但会出现在可用年份里
	insert(time.Date(2023, 6, 1, 12, 0, 0, 0, time.Local), 2, "去年好")
	msgDB.Close()

	return dir
}

func newTestRepo(t *testing.T, dir string) (*Repository, *core.ConnectionPool) {
	t.Helper()
	index := bind.NewShardIndex(dir, strategy.NewV4())
	if err := index.Rebuild(); err != nil {
		t.Fatalf("重建分片索引失败: %v", err)
	}
	pool := core.NewConnectionPool(dir)
	t.Cleanup(func() { pool.CloseAll() })
	return New(index, pool, fixtureAccountID), pool
}

func TestGenerateReport(t *testing.T) {
	dir := setupAccountDir(t)
	r, _ := newTestRepo(t, dir)

	report, err := r.GenerateReport(context.Background(), 2024)
	if err != nil {
		t.Fatalf("GenerateReport 失败: %v", err)
	}

	if report.Year != 2024 {
		t.Errorf("期望年份 2024, 实际 %d", report.Year)
	}
	if report.TotalMessages != 3 {
		t.Errorf("期望 3 条消息, 实际 %d", report.TotalMessages)
	}
	if report.TotalFriends != 1 {
		t.Errorf("群聊/公众号/自己都应被排除, 期望 1 位好友, 实际 %d", report.TotalFriends)
	}

	if len(report.CoreFriends) != 1 {
		t.Fatalf("期望 1 位年度挚友, 实际 %d", len(report.CoreFriends))
	}
	top := report.CoreFriends[0]
	if top.Name != "阿明" {
		t.Errorf("显示名应优先取备注, 实际 %q", top.Name)
	}
	if top.Avatar != "http://x/friend.jpg" {
		t.Errorf("头像丢失: %q", top.Avatar)
	}
	if top.SentCount != 2 || top.RecvCount != 1 {
		t.Errorf("方向统计错误: %+v", top)
	}

	if report.SelfAvatarURL != "http://x/self.jpg" {
		t.Errorf("自己的头像错误: %q", report.SelfAvatarURL)
	}

	if report.Diagnostics == nil || report.Diagnostics.TablesProcessed != 1 {
		t.Errorf("诊断信息错误: %+v", report.Diagnostics)
	}
}

func TestGenerateReportIdempotent(t *testing.T) {
	dir := setupAccountDir(t)
	r, _ := newTestRepo(t, dir)
	ctx := context.Background()

	first, err := r.GenerateReport(ctx, 2024)
	if err != nil {
		t.Fatalf("第一次生成失败: %v", err)
	}
	second, err := r.GenerateReport(ctx, 2024)
	if err != nil {
		t.Fatalf("第二次生成失败: %v", err)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("同一数据两次生成的报告应逐字节一致")
	}
}

func TestGenerateReportEmptyYear(t *testing.T) {
	dir := setupAccountDir(t)
	r, _ := newTestRepo(t, dir)

	report, err := r.GenerateReport(context.Background(), 2020)
	if err != nil {
		t.Fatalf("空年份也应正常生成: %v", err)
	}
	if report.TotalMessages != 0 {
		t.Errorf("2020 年没有消息, 实际 %d", report.TotalMessages)
	}
	if report.PeakDay != nil || report.MutualFriend != nil {
		t.Error("空年份的条件字段应为 null")
	}
}

func TestAvailableYears(t *testing.T) {
	dir := setupAccountDir(t)
	r, _ := newTestRepo(t, dir)

	years, err := r.AvailableYears(context.Background())
	if err != nil {
		t.Fatalf("AvailableYears 失败: %v", err)
	}
	if len(years) != 2 || years[0] != 2024 || years[1] != 2023 {
		t.Errorf("期望 [2024 2023], 实际 %v", years)
	}
}
