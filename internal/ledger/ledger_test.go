package ledger

import (
	"errors"
	"testing"
)

// newActiveLedger 构造一个已开启活动、带名单和初始余额的账本。
func newActiveLedger(t *testing.T, names []string, balances map[string]int) *Ledger {
	t.Helper()
	l := New()
	l.SetRoster(names)
	for id, balance := range balances {
		l.AdjustBalance(id, balance)
	}
	if !l.ToggleActive() {
		t.Fatal("ToggleActive应当返回true")
	}
	return l
}

func TestCastVoteHappyPath(t *testing.T) {
	l := newActiveLedger(t, []string{"Alice", "Bob"}, map[string]int{"u1": 100})

	remaining, err := l.CastVote("u1", "Alice", 30)
	if err != nil {
		t.Fatalf("投票失败: %v", err)
	}
	if remaining != 70 {
		t.Errorf("剩余余额 = %d, 期望 70", remaining)
	}
	if entry, _ := l.CharacterEntry("Alice"); entry.TotalPoints != 30 {
		t.Errorf("Alice总票数 = %d, 期望 30", entry.TotalPoints)
	}

	// 余额不足时状态必须保持不变
	_, err = l.CastVote("u1", "Alice", 80)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("期望ErrInsufficientBalance, 得到 %v", err)
	}
	if l.MyBalance("u1") != 70 {
		t.Errorf("失败的投票改动了余额: %d", l.MyBalance("u1"))
	}
	if entry, _ := l.CharacterEntry("Alice"); entry.TotalPoints != 30 {
		t.Errorf("失败的投票改动了票数: %d", entry.TotalPoints)
	}
}

func TestCastVotePreconditionOrder(t *testing.T) {
	tests := []struct {
		name      string
		active    bool
		character string
		points    int
		balance   int
		wantErr   error
	}{
		{"活动未开启", false, "Alice", 10, 100, ErrInactive},
		{"角色不存在", true, "Nobody", 10, 100, ErrUnknownCharacter},
		{"点数为零", true, "Alice", 0, 100, ErrInvalidPoints},
		{"点数为负", true, "Alice", -5, 100, ErrInvalidPoints},
		{"余额不足", true, "Alice", 101, 100, ErrInsufficientBalance},
		{"未知用户余额视为零", true, "Alice", 1, 0, ErrInsufficientBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New()
			l.SetRoster([]string{"Alice"})
			if tt.balance > 0 {
				l.AdjustBalance("u1", tt.balance)
			}
			if tt.active {
				l.ToggleActive()
			}

			_, err := l.CastVote("u1", tt.character, tt.points)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("错误 = %v, 期望 %v", err, tt.wantErr)
			}
			// 失败的投票不留下任何痕迹
			if l.MyBalance("u1") != tt.balance {
				t.Errorf("余额被改动: %d", l.MyBalance("u1"))
			}
			if entry, ok := l.CharacterEntry("Alice"); ok && entry.TotalPoints != 0 {
				t.Errorf("票数被改动: %d", entry.TotalPoints)
			}
		})
	}
}

func TestCastVoteNeverGoesNegative(t *testing.T) {
	l := newActiveLedger(t, []string{"Alice"}, map[string]int{"u1": 50})

	// 任意投票序列后余额都不可能为负
	for i := 0; i < 20; i++ {
		l.CastVote("u1", "Alice", 7)
		if balance := l.MyBalance("u1"); balance < 0 {
			t.Fatalf("余额变为负数: %d", balance)
		}
	}
	if balance := l.MyBalance("u1"); balance != 1 {
		t.Errorf("最终余额 = %d, 期望 1 (50 - 7*7)", balance)
	}
}

func TestAdjustBalanceClamp(t *testing.T) {
	tests := []struct {
		name    string
		initial int
		delta   int
		want    int
	}{
		{"普通增加", 100, 20, 120},
		{"普通扣除", 100, -30, 70},
		{"扣到下限", 100, -500, 0},
		{"超过上限", 100, 20000, MaxBalance},
		{"上限精确", 9998, 1, 9999},
		{"极大负数", 0, -1 << 40, 0},
		{"极大正数", 0, 1 << 40, MaxBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New()
			if tt.initial != 0 {
				l.AdjustBalance("u1", tt.initial)
			}
			got := l.AdjustBalance("u1", tt.delta)
			if got != tt.want {
				t.Errorf("AdjustBalance = %d, 期望 %d", got, tt.want)
			}
			if got < 0 || got > MaxBalance {
				t.Errorf("余额越界: %d", got)
			}
		})
	}
}

func TestLeaderboardOrderingAndStability(t *testing.T) {
	l := newActiveLedger(t, []string{"A", "B", "C", "D"}, map[string]int{"u1": 1000})

	l.CastVote("u1", "C", 50)
	l.CastVote("u1", "B", 50)
	l.CastVote("u1", "D", 80)

	// D(80) > C(50) == B(50) > A(0)；同分的C和B保持名单写入顺序
	got := l.Leaderboard()
	wantNames := []string{"D", "B", "C", "A"}
	if len(got) != len(wantNames) {
		t.Fatalf("排行榜长度 = %d, 期望 %d", len(got), len(wantNames))
	}
	for i, name := range wantNames {
		if got[i].Name != name {
			t.Errorf("排行榜[%d] = %s, 期望 %s", i, got[i].Name, name)
		}
	}
}

func TestSetRosterIsDestructiveReplace(t *testing.T) {
	l := newActiveLedger(t, []string{"A", "B"}, map[string]int{"u1": 100})
	l.CastVote("u1", "A", 40)

	// 即使名字重复出现，票数也必须归零
	l.SetRoster([]string{"A", "B"})

	got := l.Leaderboard()
	if len(got) != 2 {
		t.Fatalf("排行榜长度 = %d, 期望 2", len(got))
	}
	if got[0].Name != "A" || got[0].TotalPoints != 0 {
		t.Errorf("排行榜[0] = %+v, 期望 A/0", got[0])
	}
	if got[1].Name != "B" || got[1].TotalPoints != 0 {
		t.Errorf("排行榜[1] = %+v, 期望 B/0", got[1])
	}
}

func TestSetRosterTrimsAndDeduplicates(t *testing.T) {
	l := New()
	entries := l.SetRoster([]string{" Alice ", "", "Bob", "Alice", "  "})

	if len(entries) != 2 {
		t.Fatalf("名单长度 = %d, 期望 2", len(entries))
	}
	if entries[0].Name != "Alice" || entries[1].Name != "Bob" {
		t.Errorf("名单 = %v", entries)
	}
	for _, entry := range entries {
		if !entry.Available {
			t.Errorf("新角色 %s 应当可投票", entry.Name)
		}
	}
}

func TestResetVotesKeepsBalances(t *testing.T) {
	l := newActiveLedger(t, []string{"A"}, map[string]int{"u1": 100, "u2": 55})
	l.CastVote("u1", "A", 10)
	before := l.MyBalance("u1")

	l.ResetVotes()

	if l.MyBalance("u1") != before {
		t.Errorf("重置后u1余额 = %d, 期望 %d", l.MyBalance("u1"), before)
	}
	if l.MyBalance("u2") != 55 {
		t.Errorf("重置后u2余额 = %d, 期望 55", l.MyBalance("u2"))
	}
	if len(l.Leaderboard()) != 0 {
		t.Error("重置后名单应当为空")
	}
	if _, ok := l.CharacterEntry("A"); ok {
		t.Error("重置后角色A不应存在")
	}
}

func TestToggleActive(t *testing.T) {
	l := New()
	if l.Active() {
		t.Error("新账本不应处于激活状态")
	}
	if !l.ToggleActive() || !l.Active() {
		t.Error("第一次翻转后应当激活")
	}
	if l.ToggleActive() || l.Active() {
		t.Error("第二次翻转后应当关闭")
	}
}

func TestMyBalanceDoesNotCreateAccount(t *testing.T) {
	l := New()
	if l.MyBalance("ghost") != 0 {
		t.Error("未知用户余额应为0")
	}
	if len(l.Balances()) != 0 {
		t.Error("只读查询不应创建账户")
	}
}

func TestLoadAllReplacesState(t *testing.T) {
	l := newActiveLedger(t, []string{"Old"}, map[string]int{"stale": 10})

	l.LoadAll(Snapshot{
		Balances:    map[string]int{"u1": 200},
		VotesByUser: map[string]map[string]int{"u1": {"A": 30}},
		Roster: []RosterEntry{
			{Name: "A", Available: true, TotalPoints: 30},
			{Name: "B", Available: true, TotalPoints: 0},
		},
		Active: true,
	})

	if l.MyBalance("stale") != 0 {
		t.Error("旧状态应当被快照完全替换")
	}
	if l.MyBalance("u1") != 200 {
		t.Errorf("u1余额 = %d, 期望 200", l.MyBalance("u1"))
	}
	if !l.Active() {
		t.Error("激活状态应当来自快照")
	}

	got := l.Leaderboard()
	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "B" {
		t.Errorf("排行榜 = %v", got)
	}

	// 快照装载后可以直接继续投票
	if _, err := l.CastVote("u1", "B", 50); err != nil {
		t.Fatalf("快照装载后投票失败: %v", err)
	}
	if entry, _ := l.CharacterEntry("B"); entry.TotalPoints != 50 {
		t.Errorf("B总票数 = %d, 期望 50", entry.TotalPoints)
	}
}
