package store

import (
	"context"
	"errors"

	"github.com/afumu/wereport/internal/model"
	"github.com/fsnotify/fsnotify"
)

// ErrConfigMissing 表示没有配置账号ID, 无法定位任何数据。
var ErrConfigMissing = errors.New("未配置账号ID")

// Store 定义了报告引擎对外的统一接口。
// 它屏蔽了目录结构、分片布局和模式差异。
type Store interface {
	// GenerateReport 生成指定年份的年度报告 (每次调用都是全量重算)
	GenerateReport(ctx context.Context, year int) (*model.AnnualReport, error)

	// AvailableYears 返回存在消息数据的年份, 降序
	AvailableYears(ctx context.Context) ([]int, error)

	// Watch 注册文件系统事件的回调函数
	Watch(callback func(event fsnotify.Event) error) error

	// Reload 重新加载存储（重建索引、刷新连接等）
	Reload() error

	// 生命周期管理
	Close() error
}
