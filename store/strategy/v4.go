package strategy

import (
	"regexp"
	"strings"
)

type v4Pattern struct {
	group GroupType
	re    *regexp.Regexp
}

// V4 实现解密输出目录的文件识别策略。
// 消息分片以 msg/message 开头, session.db 和 contact.db 各只有一个。
type V4 struct {
	patterns []v4Pattern
}

// NewV4 创建一个新的策略实例
func NewV4() *V4 {
	return &V4{
		patterns: []v4Pattern{
			{Message, regexp.MustCompile(`(?i)^message(.*)\.db$`)},
			{Message, regexp.MustCompile(`(?i)^msg(.*)\.db$`)},
			{Contact, regexp.MustCompile(`(?i)^contact\.db$`)},
			{Session, regexp.MustCompile(`(?i)^session\.db$`)},
		},
	}
}

// Identify 检查文件名是否匹配任何已知模式
func (s *V4) Identify(filename string) (FileMeta, bool) {
	for _, p := range s.patterns {
		matches := p.re.FindStringSubmatch(filename)
		if matches != nil {
			meta := FileMeta{
				Type: p.group,
			}
			// 如果存在索引（第一个捕获组），则提取它
			if len(matches) > 1 && matches[1] != "" {
				// 去掉开头的下划线
				meta.Index = strings.TrimPrefix(matches[1], "_")
			}
			return meta, true
		}
	}
	return FileMeta{Type: Unknown}, false
}
