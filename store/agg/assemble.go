package agg

import (
	"math"
	"sort"
	"time"

	"github.com/afumu/wereport/internal/model"
)

// monthlyNoneSentinel 某月没有任何消息时的占位显示名
const monthlyNoneSentinel = "暂无"

// ContactInfo 组装阶段用到的联系人展示信息
type ContactInfo struct {
	Name   string
	Avatar string
}

// Assemble 把累加器状态折算成最终报告。纯函数式推导: 前置条件不满足的
// 字段置为 null, 组装本身永不失败。所有遍历都按固定顺序进行, 同样的
// 累加器状态两次组装得到完全相同的结果。
func (a *Aggregator) Assemble(year int, info map[string]ContactInfo, selfAvatar string, diag *model.RunStats) *model.AnnualReport {
	report := &model.AnnualReport{
		Year:          year,
		TotalMessages: a.total,
		TotalFriends:  len(a.contacts),
		SelfAvatarURL: selfAvatar,
		Diagnostics:   diag,
	}

	talkers := a.sortedTalkers()

	report.CoreFriends = a.coreFriends(talkers, info)
	report.MonthlyTopFriends = a.monthlyTopFriends(talkers, info)
	report.PeakDay = a.peakDay(info)
	report.MidnightKing = a.midnightKing(talkers, info)
	report.LongestStreak = a.longestStreak(talkers, info)
	report.MutualFriend = a.mutualFriend(talkers, info)
	report.SocialInitiative = a.socialInitiative(talkers)
	report.ResponseSpeed = a.responseSpeed(talkers, info)
	report.ActivityHeatmap = a.heatmap

	phrases := a.phrases.Top(2, 32)
	report.TopPhrases = make([]*model.PhraseStat, 0, len(phrases))
	for _, p := range phrases {
		report.TopPhrases = append(report.TopPhrases, &model.PhraseStat{Phrase: p.Phrase, Count: p.Count})
	}

	return report
}

// sortedTalkers 返回按字典序排列的联系人ID, 保证输出稳定
func (a *Aggregator) sortedTalkers() []string {
	talkers := make([]string, 0, len(a.contacts))
	for t := range a.contacts {
		talkers = append(talkers, t)
	}
	sort.Strings(talkers)
	return talkers
}

func displayName(talker string, info map[string]ContactInfo) string {
	if p, ok := info[talker]; ok && p.Name != "" {
		return p.Name
	}
	return talker
}

func avatar(talker string, info map[string]ContactInfo) string {
	if p, ok := info[talker]; ok {
		return p.Avatar
	}
	return ""
}

// coreFriends 年度挚友: 按总消息数降序取前 3
func (a *Aggregator) coreFriends(talkers []string, info map[string]ContactInfo) []*model.TopContact {
	friends := make([]*model.TopContact, 0, len(talkers))
	for _, t := range talkers {
		c := a.contacts[t]
		friends = append(friends, &model.TopContact{
			Talker:       t,
			Name:         displayName(t, info),
			Avatar:       avatar(t, info),
			MessageCount: c.sent + c.recv,
			SentCount:    c.sent,
			RecvCount:    c.recv,
		})
	}
	sort.SliceStable(friends, func(i, j int) bool {
		return friends[i].MessageCount > friends[j].MessageCount
	})
	if len(friends) > 3 {
		friends = friends[:3]
	}
	return friends
}

// monthlyTopFriends 每个月消息最多的好友, 没有消息的月份给占位名
func (a *Aggregator) monthlyTopFriends(talkers []string, info map[string]ContactInfo) []*model.MonthlyTopFriend {
	result := make([]*model.MonthlyTopFriend, 0, 12)
	for month := 1; month <= 12; month++ {
		maxCount := 0
		top := ""
		for _, t := range talkers {
			if count := a.contacts[t].monthly[month]; count > maxCount {
				maxCount = count
				top = t
			}
		}

		item := &model.MonthlyTopFriend{Month: month, MessageCount: maxCount}
		if top == "" {
			item.Name = monthlyNoneSentinel
		} else {
			item.Name = displayName(top, info)
			item.Avatar = avatar(top, info)
		}
		result = append(result, item)
	}
	return result
}

// peakDay 全年消息最多的一天及当天贡献最多的好友
func (a *Aggregator) peakDay(info map[string]ContactInfo) *model.PeakDay {
	days := make([]string, 0, len(a.daily))
	for d := range a.daily {
		days = append(days, d)
	}
	sort.Strings(days)

	var peak *model.PeakDay
	maxCount := 0
	for _, day := range days {
		count := a.daily[day]
		if count <= maxCount {
			continue
		}
		maxCount = count

		topFriend := ""
		topFriendCount := 0
		dayMap := a.dailyContacts[day]
		dayTalkers := make([]string, 0, len(dayMap))
		for t := range dayMap {
			dayTalkers = append(dayTalkers, t)
		}
		sort.Strings(dayTalkers)
		for _, t := range dayTalkers {
			if c := dayMap[t]; c > topFriendCount {
				topFriendCount = c
				topFriend = displayName(t, info)
			}
		}

		peak = &model.PeakDay{
			Date:           day,
			MessageCount:   count,
			TopFriend:      topFriend,
			TopFriendCount: topFriendCount,
		}
	}
	return peak
}

// midnightKing 深夜消息最多的好友, 只有存在深夜消息时才有结果
func (a *Aggregator) midnightKing(talkers []string, info map[string]ContactInfo) *model.MidnightKing {
	totalMidnight := 0
	for _, t := range talkers {
		totalMidnight += a.contacts[t].midnight
	}
	if totalMidnight == 0 {
		return nil
	}

	maxCount := 0
	king := ""
	for _, t := range talkers {
		if c := a.contacts[t].midnight; c > maxCount {
			maxCount = c
			king = t
		}
	}

	return &model.MidnightKing{
		Name:       displayName(king, info),
		Count:      maxCount,
		Percentage: math.Round(float64(maxCount)/float64(totalMidnight)*1000) / 10,
	}
}

// longestStreak 全局最长连续聊天。
// 连续要求相邻活跃日期相差恰好一天, 不足两天的不算火花。
func (a *Aggregator) longestStreak(talkers []string, info map[string]ContactInfo) *model.StreakInfo {
	var best *model.StreakInfo
	bestDays := 1 // 只接受 >= 2 天的连续

	for _, t := range talkers {
		c := a.contacts[t]
		if len(c.activeDays) < 2 {
			continue
		}

		days, start, end := longestRun(c.activeDays)
		if days > bestDays {
			bestDays = days
			best = &model.StreakInfo{
				Name:      displayName(t, info),
				Days:      days,
				StartDate: start,
				EndDate:   end,
			}
		}
	}
	return best
}

// longestRun 在活跃日期集合中找最长的连续日期段
func longestRun(activeDays map[string]struct{}) (int, string, string) {
	dates := make([]time.Time, 0, len(activeDays))
	for d := range activeDays {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue
		}
		dates = append(dates, parsed)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	if len(dates) == 0 {
		return 0, "", ""
	}

	current := 1
	currentStart := dates[0]
	maxStreak := 1
	maxStart, maxEnd := dates[0], dates[0]

	for i := 1; i < len(dates); i++ {
		if dates[i].Sub(dates[i-1]).Hours() == 24 {
			current++
		} else {
			current = 1
			currentStart = dates[i]
		}
		if current > maxStreak {
			maxStreak = current
			maxStart = currentStart
			maxEnd = dates[i]
		}
	}

	return maxStreak, maxStart.Format("2006-01-02"), maxEnd.Format("2006-01-02")
}

// mutualFriend 双向奔赴: 收发各不少于 50 条且比例最接近 1:1 的好友
func (a *Aggregator) mutualFriend(talkers []string, info map[string]ContactInfo) *model.MutualFriend {
	var best *model.MutualFriend
	bestDiff := math.Inf(1)

	for _, t := range talkers {
		c := a.contacts[t]
		if c.sent < 50 || c.recv < 50 {
			continue
		}
		ratio := float64(c.sent) / float64(c.recv)
		diff := math.Abs(ratio - 1)
		if diff < bestDiff {
			bestDiff = diff
			best = &model.MutualFriend{
				Name:      displayName(t, info),
				Avatar:    avatar(t, info),
				SentCount: c.sent,
				RecvCount: c.recv,
				Ratio:     math.Round(ratio*100) / 100,
			}
		}
	}
	return best
}

// socialInitiative 对话发起统计, 全年没有任何对话开端时为 null
func (a *Aggregator) socialInitiative(talkers []string) *model.SocialInitiative {
	initiated, received := 0, 0
	for _, t := range talkers {
		initiated += a.contacts[t].initiated
		received += a.contacts[t].received
	}

	total := initiated + received
	if total == 0 {
		return nil
	}
	return &model.SocialInitiative{
		InitiatedChats: initiated,
		ReceivedChats:  received,
		InitiativeRate: math.Round(float64(initiated)/float64(total)*1000) / 10,
	}
}

// responseSpeed 回复速度: 只统计样本数不少于 10 的好友
func (a *Aggregator) responseSpeed(talkers []string, info map[string]ContactInfo) *model.ResponseSpeed {
	var allSum, allCount int64
	fastest := ""
	fastestAvg := math.Inf(1)

	for _, t := range talkers {
		samples := a.contacts[t].responses
		if len(samples) < 10 {
			continue
		}
		var sum int64
		for _, s := range samples {
			sum += s
		}
		allSum += sum
		allCount += int64(len(samples))

		avg := float64(sum) / float64(len(samples))
		if avg < fastestAvg {
			fastestAvg = avg
			fastest = t
		}
	}

	if allCount == 0 {
		return nil
	}
	return &model.ResponseSpeed{
		AvgResponseSeconds: int(math.Round(float64(allSum) / float64(allCount))),
		FastestFriend:      displayName(fastest, info),
		FastestSeconds:     int(math.Round(fastestAvg)),
	}
}
