package agg

import (
	"github.com/afumu/wereport/internal/model"
	"github.com/afumu/wereport/internal/phrase"
)

// ConversationGap 是对话分段的时间阈值 (秒): 与上一条消息间隔超过
// 该值的消息被视为新对话的开端。
const ConversationGap = 3600

// maxResponseSeconds 回复耗时样本的上界 (24小时)
const maxResponseSeconds = 86400

// contactAcc 单个联系人的累加器
type contactAcc struct {
	sent int
	recv int

	// 对话分段水位线
	lastTime   int64
	lastIsSent bool
	seen       bool

	initiated int // 我开启的对话数
	received  int // 对方开启的对话数

	responses []int64 // 回复耗时样本 (秒)

	monthly    [13]int // 下标 1-12
	midnight   int     // 0-6 点的消息数
	activeDays map[string]struct{}
}

// Aggregator 在一趟遍历中同时维护所有联系人级与全局累加器。
// 它假定输入流对单个联系人按时间升序, 每条消息的处理是 O(1) 的。
type Aggregator struct {
	phrases  *phrase.Counter
	contacts map[string]*contactAcc

	total         int
	heatmap       [7][24]int
	daily         map[string]int            // 日期 -> 全局消息数
	dailyContacts map[string]map[string]int // 日期 -> 联系人 -> 消息数
}

// New 创建一个新的聚合器。
// textTypes 指定哪些消息类型参与常用语统计, 为 nil 时用默认集合。
func New(textTypes map[int64]struct{}) *Aggregator {
	return &Aggregator{
		phrases:       phrase.NewCounter(textTypes),
		contacts:      make(map[string]*contactAcc),
		daily:         make(map[string]int),
		dailyContacts: make(map[string]map[string]int),
	}
}

// Consume 处理一条消息事件, 更新所有相关累加器。
func (a *Aggregator) Consume(rec model.MessageRecord) {
	a.total++

	c := a.contacts[rec.Talker]
	if c == nil {
		c = &contactAcc{activeDays: make(map[string]struct{})}
		a.contacts[rec.Talker] = c
	}

	if rec.IsSent {
		c.sent++
	} else {
		c.recv++
	}

	// 对话分段与回复耗时
	if !c.seen || rec.Time-c.lastTime > ConversationGap {
		// 新对话开始, 按开端方向归因
		if rec.IsSent {
			c.initiated++
		} else {
			c.received++
		}
	} else if rec.IsSent && !c.lastIsSent {
		// 阈值之内方向由收转发: 记一次回复耗时
		delta := rec.Time - c.lastTime
		if delta > 0 && delta < maxResponseSeconds {
			c.responses = append(c.responses, delta)
		}
	}
	c.lastTime = rec.Time
	c.lastIsSent = rec.IsSent
	c.seen = true

	// 常用语只统计我发出的文本消息
	if rec.IsSent && rec.HasContent {
		a.phrases.Add(rec.Type, rec.Content)
	}

	if rec.Month >= 1 && rec.Month <= 12 {
		c.monthly[rec.Month]++
	}

	a.daily[rec.Day]++
	dayMap := a.dailyContacts[rec.Day]
	if dayMap == nil {
		dayMap = make(map[string]int)
		a.dailyContacts[rec.Day] = dayMap
	}
	dayMap[rec.Talker]++

	c.activeDays[rec.Day] = struct{}{}

	if rec.Weekday >= 0 && rec.Weekday < 7 && rec.Hour >= 0 && rec.Hour < 24 {
		a.heatmap[rec.Weekday][rec.Hour]++
	}

	if rec.Hour >= 0 && rec.Hour < 6 {
		c.midnight++
	}
}

// Total 返回已处理的消息总数
func (a *Aggregator) Total() int {
	return a.total
}

// Talkers 返回出现过消息的联系人ID, 按字典序排列
func (a *Aggregator) Talkers() []string {
	return a.sortedTalkers()
}
