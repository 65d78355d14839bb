package phrase

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"  哈哈哈!!  ", "哈哈哈", true},
		{"OK啦", "ok啦", true},
		{"好", "", false},                      // 单字符太短
		{"这是一条超过二十个字符限制的非常非常非常长的消息内容", "", false}, // 超长
		{"看这个 http://example.com", "", false}, // 链接
		{"<msg>xxx</msg>", "", false},         // 标记语言
		{"[图片]", "", false},                   // 系统占位
		{"！！！", "", false},                    // 去掉标点后为空
	}

	for _, c := range cases {
		got, ok := Normalize(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("Normalize(%q) = (%q, %v), 期望 (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestCounterTop(t *testing.T) {
	c := NewCounter(nil)

	// 非文本类型不计入
	c.Add(3, "哈哈哈")

	for i := 0; i < 3; i++ {
		c.Add(1, "哈哈哈")
	}
	for i := 0; i < 3; i++ {
		c.Add(244813135921, "晚安呀")
	}
	c.Add(1, "好的好的")
	c.Add(1, "好的好的")
	c.Add(1, "只出现一次")

	top := c.Top(2, 32)
	if len(top) != 3 {
		t.Fatalf("期望 3 条常用语, 实际得到 %d", len(top))
	}

	// 次数相同时按字典序排列
	if top[0].Phrase != "哈哈哈" && top[0].Phrase != "晚安呀" {
		t.Errorf("第一名应为次数最多的短语, 实际得到 %q", top[0].Phrase)
	}
	if top[0].Count != 3 || top[1].Count != 3 {
		t.Errorf("前两名次数应为 3, 实际得到 %d 和 %d", top[0].Count, top[1].Count)
	}
	if top[0].Phrase >= top[1].Phrase {
		t.Errorf("同次数短语应按字典序: %q 应排在 %q 之前", top[0].Phrase, top[1].Phrase)
	}
	if top[2].Phrase != "好的好的" || top[2].Count != 2 {
		t.Errorf("第三名应为 ('好的好的', 2), 实际得到 (%q, %d)", top[2].Phrase, top[2].Count)
	}
}

func TestCounterLimit(t *testing.T) {
	c := NewCounter(nil)
	c.Add(1, "第一条啊")
	c.Add(1, "第一条啊")
	c.Add(1, "第二条啊")
	c.Add(1, "第二条啊")

	top := c.Top(2, 1)
	if len(top) != 1 {
		t.Fatalf("limit=1 时应只返回 1 条, 实际得到 %d", len(top))
	}
}
