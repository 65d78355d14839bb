package model

// MessageRecord 是扫描阶段产出的单条消息事件。
// 它只在扫描流中存在，产出后不可变，也不会被持久化。
type MessageRecord struct {
	Talker     string // 联系人ID
	Time       int64  // 秒级时间戳
	IsSent     bool   // true 表示自己发送
	Day        string // YYYY-MM-DD (本地时区)
	Month      int    // 1-12
	Hour       int    // 0-23
	Weekday    int    // 0=周一 ... 6=周日
	Type       int64  // 消息类型标签
	Content    string // 规整前的文本内容
	HasContent bool   // 该表是否存在可用的内容列
}

// 表级扫描结果状态
const (
	TableOK      = "ok"
	TableSkipped = "skipped"
	TableFailed  = "failed"
)

// TableResult 记录单个消息表的处理结果。
// 按表跳过的情况不再被静默吞掉，而是作为运行诊断暴露出来。
type TableResult struct {
	Shard  string `json:"shard"`            // 分片文件路径
	Table  string `json:"table"`            // 表名
	Talker string `json:"talker"`           // 映射到的联系人ID
	Status string `json:"status"`           // ok / skipped / failed
	Reason string `json:"reason,omitempty"` // 跳过或失败的原因
	Rows   int    `json:"rows"`             // 读取的消息行数
}

// RunStats 汇总一次报告生成的扫描诊断信息。
type RunStats struct {
	TablesProcessed int           `json:"tables_processed"`
	TablesSkipped   int           `json:"tables_skipped"`
	TablesFailed    int           `json:"tables_failed"`
	TableResults    []TableResult `json:"table_results,omitempty"`
}
