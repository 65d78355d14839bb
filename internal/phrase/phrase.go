package phrase

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultTextTypes 是被识别为纯文本的消息类型集合。
// 244813135921 在部分 V4 数据库中同样表示文本消息, 含义未见官方文档。
var DefaultTextTypes = map[int64]struct{}{
	1:            {},
	244813135921: {},
}

// Stat 词频项
type Stat struct {
	Phrase string
	Count  int
}

// Counter 统计本人发出的常用语。
type Counter struct {
	textTypes map[int64]struct{}
	counts    map[string]int
}

// NewCounter 创建一个常用语计数器。
// textTypes 为空时使用 DefaultTextTypes。
func NewCounter(textTypes map[int64]struct{}) *Counter {
	if textTypes == nil {
		textTypes = DefaultTextTypes
	}
	return &Counter{
		textTypes: textTypes,
		counts:    make(map[string]int),
	}
}

// Add 尝试把一条消息计入常用语统计。
// 只接受可识别文本类型的消息, 内容先经过 Normalize 过滤。
func (c *Counter) Add(msgType int64, content string) {
	if _, ok := c.textTypes[msgType]; !ok {
		return
	}
	normalized, ok := Normalize(content)
	if !ok {
		return
	}
	c.counts[normalized]++
}

// Top 返回出现次数不低于 min 的常用语, 按次数降序, 最多 limit 条。
// 次数相同时按字典序, 保证输出稳定。
func (c *Counter) Top(min, limit int) []*Stat {
	items := make([]*Stat, 0, len(c.counts))
	for phrase, count := range c.counts {
		if count >= min {
			items = append(items, &Stat{Phrase: phrase, Count: count})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Phrase < items[j].Phrase
		}
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// Normalize 规整一条文本内容并判断其是否是可统计的常用语。
// 规则: 去首尾空白, 转小写, 去掉末尾的标点和符号;
// 规整后长度须在 [2,20] 个字符之间, 且不含链接、标记语言或系统消息特征。
func Normalize(content string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(content))
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})

	n := utf8.RuneCountInString(s)
	if n < 2 || n > 20 {
		return "", false
	}
	if strings.Contains(s, "http") ||
		strings.Contains(s, "<") ||
		strings.HasPrefix(s, "[") ||
		strings.HasPrefix(s, "<?xml") {
		return "", false
	}
	return s, true
}
