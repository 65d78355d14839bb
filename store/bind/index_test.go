package bind

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/afumu/wereport/store/strategy"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
		t.Fatalf("创建文件 %s 失败: %v", name, err)
	}
}

func TestRebuild(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "msg1.db")
	touch(t, dir, "msg0.db")
	touch(t, dir, "session.db")
	touch(t, dir, "contact.db")
	touch(t, dir, "media_0.db") // 不识别的文件

	x := NewShardIndex(dir, strategy.NewV4())
	if err := x.Rebuild(); err != nil {
		t.Fatalf("Rebuild 失败: %v", err)
	}

	shards := x.Shards()
	if len(shards) != 2 {
		t.Fatalf("期望 2 个分片, 实际 %d", len(shards))
	}
	// 按路径排序
	if filepath.Base(shards[0].FilePath) != "msg0.db" || filepath.Base(shards[1].FilePath) != "msg1.db" {
		t.Errorf("分片应按文件名排序: %v", shards)
	}

	if _, err := x.SessionDBPath(); err != nil {
		t.Errorf("session.db 存在但未被索引: %v", err)
	}
	if _, ok := x.ContactDBPath(); !ok {
		t.Error("contact.db 存在但未被索引")
	}
}

func TestRebuildMissingSessionDB(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "msg0.db")

	x := NewShardIndex(dir, strategy.NewV4())
	if err := x.Rebuild(); !errors.Is(err, ErrNoSessionIndex) {
		t.Errorf("期望 ErrNoSessionIndex, 实际得到 %v", err)
	}
}

func TestRebuildNoShards(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "session.db")

	x := NewShardIndex(dir, strategy.NewV4())
	if err := x.Rebuild(); !errors.Is(err, ErrNoDatabaseFound) {
		t.Errorf("期望 ErrNoDatabaseFound, 实际得到 %v", err)
	}
}

func TestRebuildMissingContactDegrades(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "msg0.db")
	touch(t, dir, "session.db")

	x := NewShardIndex(dir, strategy.NewV4())
	if err := x.Rebuild(); err != nil {
		t.Fatalf("缺 contact.db 不应是致命错误: %v", err)
	}
	if _, ok := x.ContactDBPath(); ok {
		t.Error("contact.db 不存在时应返回 false")
	}
}
