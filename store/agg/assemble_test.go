package agg

import (
	"testing"
	"time"
)

func TestAssembleSingleFriendYear(t *testing.T) {
	a := New(nil)
	base := time.Date(2024, 1, 10, 8, 0, 0, 0, time.Local)

	// 一月份: 先收 80 条, 再发 120 条, 间隔均在阈值内
	ts := base
	for i := 0; i < 80; i++ {
		a.Consume(rec("wxid_friend001", ts, false, ""))
		ts = ts.Add(time.Second)
	}
	for i := 0; i < 120; i++ {
		a.Consume(rec("wxid_friend001", ts, true, ""))
		ts = ts.Add(time.Second)
	}

	info := map[string]ContactInfo{
		"wxid_friend001": {Name: "阿明", Avatar: "http://x/a.jpg"},
	}
	report := a.Assemble(2024, info, "http://x/self.jpg", nil)

	if report.TotalMessages != 200 {
		t.Errorf("期望 200 条消息, 实际 %d", report.TotalMessages)
	}
	if report.TotalFriends != 1 {
		t.Errorf("期望 1 位好友, 实际 %d", report.TotalFriends)
	}

	if len(report.CoreFriends) != 1 {
		t.Fatalf("期望 1 位年度挚友, 实际 %d", len(report.CoreFriends))
	}
	top := report.CoreFriends[0]
	if top.Name != "阿明" || top.MessageCount != 200 || top.SentCount != 120 || top.RecvCount != 80 {
		t.Errorf("年度挚友统计错误: %+v", top)
	}

	if len(report.MonthlyTopFriends) != 12 {
		t.Fatalf("每月之星应有 12 项, 实际 %d", len(report.MonthlyTopFriends))
	}
	if report.MonthlyTopFriends[0].Name != "阿明" || report.MonthlyTopFriends[0].MessageCount != 200 {
		t.Errorf("一月之星错误: %+v", report.MonthlyTopFriends[0])
	}
	for m := 1; m < 12; m++ {
		if report.MonthlyTopFriends[m].Name != "暂无" {
			t.Errorf("%d 月没有消息, 应为占位名, 实际 %q", m+1, report.MonthlyTopFriends[m].Name)
		}
	}

	if report.PeakDay == nil || report.PeakDay.Date != "2024-01-10" || report.PeakDay.MessageCount != 200 {
		t.Errorf("巅峰日错误: %+v", report.PeakDay)
	}

	// 收发各超过 50, 比例 120/80 = 1.5
	if report.MutualFriend == nil {
		t.Fatal("满足双向奔赴前置条件, 不应为 null")
	}
	if report.MutualFriend.Ratio != 1.5 {
		t.Errorf("期望比例 1.5, 实际 %v", report.MutualFriend.Ratio)
	}

	// 前置条件不满足的字段
	if report.LongestStreak != nil {
		t.Errorf("只有一个活跃日, 火花应为 null, 实际 %+v", report.LongestStreak)
	}
	if report.ResponseSpeed != nil {
		t.Errorf("回复样本不足, ResponseSpeed 应为 null, 实际 %+v", report.ResponseSpeed)
	}
	if report.MidnightKing != nil {
		t.Errorf("没有深夜消息, MidnightKing 应为 null, 实际 %+v", report.MidnightKing)
	}

	if report.SelfAvatarURL != "http://x/self.jpg" {
		t.Errorf("自己的头像丢失: %q", report.SelfAvatarURL)
	}
}

func TestAssembleLongestStreak(t *testing.T) {
	a := New(nil)

	// 好友 A: 1/1 1/2 1/3 连续, 1/5 断开
	for _, d := range []int{1, 2, 3, 5} {
		a.Consume(rec("wxid_a", time.Date(2024, 1, d, 12, 0, 0, 0, time.Local), true, ""))
	}
	// 好友 B: 两个不相邻的活跃日, 不构成火花
	a.Consume(rec("wxid_b", time.Date(2024, 2, 1, 12, 0, 0, 0, time.Local), true, ""))
	a.Consume(rec("wxid_b", time.Date(2024, 2, 3, 12, 0, 0, 0, time.Local), true, ""))

	report := a.Assemble(2024, nil, "", nil)
	if report.LongestStreak == nil {
		t.Fatal("存在连续 3 天的记录, 火花不应为 null")
	}
	s := report.LongestStreak
	if s.Name != "wxid_a" || s.Days != 3 || s.StartDate != "2024-01-01" || s.EndDate != "2024-01-03" {
		t.Errorf("火花统计错误: %+v", s)
	}
}

func TestAssembleStreakRequiresTwoDays(t *testing.T) {
	a := New(nil)
	a.Consume(rec("wxid_b", time.Date(2024, 2, 1, 12, 0, 0, 0, time.Local), true, ""))
	a.Consume(rec("wxid_b", time.Date(2024, 2, 3, 12, 0, 0, 0, time.Local), true, ""))

	report := a.Assemble(2024, nil, "", nil)
	if report.LongestStreak != nil {
		t.Errorf("不相邻的活跃日不构成火花, 实际 %+v", report.LongestStreak)
	}
}

func TestAssembleEmpty(t *testing.T) {
	report := New(nil).Assemble(2024, nil, "", nil)

	if report.TotalMessages != 0 || report.TotalFriends != 0 {
		t.Errorf("空数据的总数应为 0: %+v", report)
	}
	if report.PeakDay != nil || report.SocialInitiative != nil ||
		report.MidnightKing != nil || report.MutualFriend != nil ||
		report.ResponseSpeed != nil || report.LongestStreak != nil {
		t.Error("空数据时所有条件字段都应为 null")
	}
	if len(report.MonthlyTopFriends) != 12 {
		t.Fatalf("空数据也应有 12 个月的占位, 实际 %d", len(report.MonthlyTopFriends))
	}
	for _, m := range report.MonthlyTopFriends {
		if m.Name != "暂无" {
			t.Errorf("%d 月应为占位名, 实际 %q", m.Month, m.Name)
		}
	}
	if len(report.CoreFriends) != 0 {
		t.Errorf("空数据不应有年度挚友: %+v", report.CoreFriends)
	}
}

func TestAssembleNameFallback(t *testing.T) {
	a := New(nil)
	a.Consume(rec("wxid_unknown", time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local), true, ""))

	report := a.Assemble(2024, nil, "", nil)
	if len(report.CoreFriends) != 1 || report.CoreFriends[0].Name != "wxid_unknown" {
		t.Errorf("缺少联系人信息时显示名应回退为ID: %+v", report.CoreFriends)
	}
}
