package ledger

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// MaxBalance 是管理员调整积分时的余额上限。
const MaxBalance = 9999

// 投票前置条件的校验错误，按CastVote的检查顺序排列。
var (
	// ErrInactive 表示投票活动当前未开启。
	ErrInactive = errors.New("投票活动未开启")
	// ErrUnknownCharacter 表示角色不在名单中或当前不可投。
	ErrUnknownCharacter = errors.New("角色不存在或不可投票")
	// ErrInvalidPoints 表示投票点数不是正整数。
	ErrInvalidPoints = errors.New("投票点数必须为正整数")
	// ErrInsufficientBalance 表示用户余额不足。
	ErrInsufficientBalance = errors.New("积分余额不足")
)

// RosterEntry 是名单中一个角色的只读视图。
type RosterEntry struct {
	Name        string
	Available   bool
	TotalPoints int
}

// Snapshot 是账本全部状态的一次性快照，
// 用于启动时从持久化存储恢复，以及停机前的最终落盘。
type Snapshot struct {
	Balances    map[string]int
	VotesByUser map[string]map[string]int
	Roster      []RosterEntry
	Active      bool
}

// characterState 是名单中一个角色的内部可变状态。
type characterState struct {
	available   bool
	totalPoints int
}

// Ledger 是投票账本：用户余额、分角色投票累计、角色名单和激活开关
// 的权威内存模型。所有不变量都在这里强制执行。
//
// 账本不持有任何持久化逻辑；调用方在每次变更后自行决定落盘哪部分状态。
// 内存状态永远先于持久化状态被更新，落盘失败也不会回滚。
type Ledger struct {
	mu sync.RWMutex

	balances    map[string]int
	votesByUser map[string]map[string]int
	roster      map[string]*characterState
	// order 记录名单的写入顺序，排行榜同分时按此顺序稳定排列
	order  []string
	active bool
}

// New 创建一个空的账本。
func New() *Ledger {
	return &Ledger{
		balances:    make(map[string]int),
		votesByUser: make(map[string]map[string]int),
		roster:      make(map[string]*characterState),
	}
}

// LoadAll 用快照整体替换内存状态，仅在启动时调用一次。
func (l *Ledger) LoadAll(snap Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances = make(map[string]int, len(snap.Balances))
	for id, balance := range snap.Balances {
		if balance < 0 {
			balance = 0
		}
		l.balances[id] = balance
	}

	l.votesByUser = make(map[string]map[string]int, len(snap.VotesByUser))
	for id, votes := range snap.VotesByUser {
		inner := make(map[string]int, len(votes))
		for name, points := range votes {
			inner[name] = points
		}
		l.votesByUser[id] = inner
	}

	l.roster = make(map[string]*characterState, len(snap.Roster))
	l.order = make([]string, 0, len(snap.Roster))
	for _, entry := range snap.Roster {
		if _, exists := l.roster[entry.Name]; exists {
			continue
		}
		l.roster[entry.Name] = &characterState{
			available:   entry.Available,
			totalPoints: entry.TotalPoints,
		}
		l.order = append(l.order, entry.Name)
	}

	l.active = snap.Active
}

// CastVote 为角色投票，扣除用户余额并累加角色票数，返回投票后的余额。
// 前置条件依次校验：活动开启、角色可投、点数合法、余额充足；
// 任何一条不满足都不会改动任何状态。
func (l *Ledger) CastVote(userID, characterName string, points int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.active {
		return 0, ErrInactive
	}
	state, ok := l.roster[characterName]
	if !ok || !state.available {
		return 0, ErrUnknownCharacter
	}
	if points <= 0 {
		return 0, ErrInvalidPoints
	}
	balance := l.balances[userID]
	if balance < points {
		return 0, ErrInsufficientBalance
	}

	balance -= points
	l.balances[userID] = balance

	votes, ok := l.votesByUser[userID]
	if !ok {
		votes = make(map[string]int)
		l.votesByUser[userID] = votes
	}
	votes[characterName] += points
	state.totalPoints += points

	return balance, nil
}

// AdjustBalance 将用户余额增减delta，并钳制在[0, MaxBalance]区间内。
// 用户不存在时会被惰性创建。返回调整后的余额。
func (l *Ledger) AdjustBalance(userID string, delta int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance := l.balances[userID] + delta
	if balance < 0 {
		balance = 0
	}
	if balance > MaxBalance {
		balance = MaxBalance
	}
	l.balances[userID] = balance
	return balance
}

// SetRoster 用给定的名字列表整体替换角色名单。
// 这是破坏性替换：即使名字与旧名单相同，票数也会归零。
// 名字会被去除首尾空白，空名字和重复名字被跳过。
func (l *Ledger) SetRoster(names []string) []RosterEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.roster = make(map[string]*characterState, len(names))
	l.order = make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, exists := l.roster[name]; exists {
			continue
		}
		l.roster[name] = &characterState{available: true}
		l.order = append(l.order, name)
	}

	return l.rosterLocked()
}

// ResetVotes 清空所有投票记录和角色名单，用户余额保持不变。
func (l *Ledger) ResetVotes() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.votesByUser = make(map[string]map[string]int)
	l.roster = make(map[string]*characterState)
	l.order = nil
}

// ToggleActive 翻转激活开关并返回新状态。
func (l *Ledger) ToggleActive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.active = !l.active
	return l.active
}

// Active 返回当前激活状态。
func (l *Ledger) Active() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// Leaderboard 返回按票数降序排列的角色列表。
// 同分角色按写入名单的先后顺序稳定排列。
func (l *Ledger) Leaderboard() []RosterEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := l.rosterLocked()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalPoints > entries[j].TotalPoints
	})
	return entries
}

// Roster 返回按写入顺序排列的当前名单。
func (l *Ledger) Roster() []RosterEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rosterLocked()
}

// CharacterEntry 返回指定角色的当前状态。
func (l *Ledger) CharacterEntry(name string) (RosterEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	state, ok := l.roster[name]
	if !ok {
		return RosterEntry{}, false
	}
	return RosterEntry{Name: name, Available: state.available, TotalPoints: state.totalPoints}, true
}

// MyBalance 返回用户当前余额，未知用户返回0且不会创建账户。
func (l *Ledger) MyBalance(userID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[userID]
}

// Balances 返回余额表的一份拷贝，供持久化层整表落盘。
func (l *Ledger) Balances() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]int, len(l.balances))
	for id, balance := range l.balances {
		out[id] = balance
	}
	return out
}

// rosterLocked 在持锁状态下按写入顺序导出名单。
func (l *Ledger) rosterLocked() []RosterEntry {
	entries := make([]RosterEntry, 0, len(l.order))
	for _, name := range l.order {
		state := l.roster[name]
		entries = append(entries, RosterEntry{
			Name:        name,
			Available:   state.available,
			TotalPoints: state.totalPoints,
		})
	}
	return entries
}
