package model

// TopContact 年度亲密度排行项
type TopContact struct {
	Talker       string `json:"talker"`       // 联系人ID
	Name         string `json:"name"`         // 显示名称
	Avatar       string `json:"avatar"`       // 头像
	MessageCount int    `json:"messageCount"` // 总消息数
	SentCount    int    `json:"sentCount"`    // 我发送的消息数
	RecvCount    int    `json:"recvCount"`    // 对方发送的消息数
}

// MonthlyTopFriend 某个月消息最多的好友
type MonthlyTopFriend struct {
	Month        int    `json:"month"` // 1-12
	Name         string `json:"name"`
	Avatar       string `json:"avatar,omitempty"`
	MessageCount int    `json:"messageCount"`
}

// PeakDay 全年消息最多的一天
type PeakDay struct {
	Date           string `json:"date"` // YYYY-MM-DD
	MessageCount   int    `json:"messageCount"`
	TopFriend      string `json:"topFriend,omitempty"`      // 当天贡献最多的好友
	TopFriendCount int    `json:"topFriendCount,omitempty"` // 该好友当天的消息数
}

// StreakInfo 最长连续聊天记录
type StreakInfo struct {
	Name      string `json:"name"`
	Days      int    `json:"days"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// MidnightKing 深夜 (0-6点) 消息最多的好友
type MidnightKing struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"` // 占所有深夜消息的百分比, 一位小数
}

// MutualFriend 收发比例最接近 1:1 的好友
type MutualFriend struct {
	Name      string  `json:"name"`
	Avatar    string  `json:"avatar,omitempty"`
	SentCount int     `json:"sentCount"`
	RecvCount int     `json:"recvCount"`
	Ratio     float64 `json:"ratio"` // sent/recv, 两位小数
}

// SocialInitiative 对话发起统计
type SocialInitiative struct {
	InitiatedChats int     `json:"initiatedChats"` // 主动发起的对话数
	ReceivedChats  int     `json:"receivedChats"`  // 对方发起的对话数
	InitiativeRate float64 `json:"initiativeRate"` // 主动率百分比, 一位小数
}

// ResponseSpeed 回复速度统计
type ResponseSpeed struct {
	AvgResponseSeconds int    `json:"avgResponseSeconds"` // 所有样本的平均回复耗时
	FastestFriend      string `json:"fastestFriend"`      // 平均回复最快的好友
	FastestSeconds     int    `json:"fastestSeconds"`     // 该好友的平均回复耗时
}

// PhraseStat 年度常用语
type PhraseStat struct {
	Phrase string `json:"phrase"`
	Count  int    `json:"count"`
}

// AnnualReport 年度报告。
// 所有条件字段在前置条件不满足时为 null, 组装过程本身不会失败。
type AnnualReport struct {
	Year              int                 `json:"year"`
	TotalMessages     int                 `json:"totalMessages"`
	TotalFriends      int                 `json:"totalFriends"`
	CoreFriends       []*TopContact       `json:"coreFriends"`
	MonthlyTopFriends []*MonthlyTopFriend `json:"monthlyTopFriends"`
	PeakDay           *PeakDay            `json:"peakDay"`
	LongestStreak     *StreakInfo         `json:"longestStreak"`
	ActivityHeatmap   [7][24]int          `json:"activityHeatmap"` // 0=周一 ... 6=周日 x 小时
	MidnightKing      *MidnightKing       `json:"midnightKing"`
	SelfAvatarURL     string              `json:"selfAvatarUrl,omitempty"`
	MutualFriend      *MutualFriend       `json:"mutualFriend"`
	SocialInitiative  *SocialInitiative   `json:"socialInitiative"`
	ResponseSpeed     *ResponseSpeed      `json:"responseSpeed"`
	TopPhrases        []*PhraseStat       `json:"topPhrases"`
	Diagnostics       *RunStats           `json:"diagnostics,omitempty"`
}
