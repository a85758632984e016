package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SlpAus/chara-vote-bot/internal/ledger"
	"github.com/SlpAus/chara-vote-bot/internal/platform/config"
	"github.com/bwmarrin/discordgo"
)

// Store 是命令路由对持久化网关的依赖面。
type Store interface {
	SaveBalances(ctx context.Context, balances map[string]int) error
	SaveVoteCast(ctx context.Context, userID string, remaining int, entry ledger.RosterEntry, position int) error
	SaveRoster(ctx context.Context, entries []ledger.RosterEntry) error
	SaveActivation(ctx context.Context, active bool) error
	DeleteVotesAndRoster(ctx context.Context) error
}

// MemberLister 是批量积分调整对成员查询接口的依赖面，
// *discordgo.Session 直接满足它。
type MemberLister interface {
	GuildMembers(guildID string, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
}

// bulkStepDelay 是批量调整时每个成员之间的固定间隔，
// 用于约束对Discord接口的请求频率。
const bulkStepDelay = 1 * time.Second

// 用户可见的固定消息。
const (
	msgDenied        = "你没有权限使用这个指令。"
	msgInternalError = "处理指令时发生内部错误，请稍后再试。"
	msgSaveFailed    = "数据保存失败，请稍后再试。"
	msgHello         = "你好，我是投票活动机器人！"
)

// Router 把一条指令映射到一次账本操作：
// 鉴权 → 参数解析 → 账本变更 → 落盘受影响的状态 → 格式化回应。
// 内存变更总是先于落盘发生，落盘失败不会回滚（下次成功落盘覆盖修正）。
type Router struct {
	ledger  *ledger.Ledger
	store   Store
	admin   config.AdminConfig
	guildID string
	members MemberLister

	stepDelay time.Duration
}

// NewRouter 创建命令路由。
func NewRouter(lg *ledger.Ledger, st Store, cfg *config.Config, members MemberLister) *Router {
	return &Router{
		ledger:    lg,
		store:     st,
		admin:     cfg.Admin,
		guildID:   cfg.Discord.GuildID,
		members:   members,
		stepDelay: bulkStepDelay,
	}
}

// Dispatch 处理一条指令。所有错误都在这里被拦截，
// 单条指令的失败绝不会让进程崩溃。
func (r *Router) Dispatch(re Responder, principal string, name string, opts []*commandOption) {
	defer func() {
		if rec := recover(); rec != nil {
			fmt.Printf("指令处理发生panic [%s]: %v\n", name, rec)
			r.reply(re, msgInternalError)
		}
	}()

	ctx := context.Background()

	switch name {
	case "hello":
		r.reply(re, msgHello)
	case "vote":
		r.handleVote(ctx, re, principal, opts)
	case "mypoints":
		r.handleMyPoints(re, principal)
	case "leaderboard":
		r.handleLeaderboard(re)
	case "setvoteplus":
		r.handleAdjust(ctx, re, principal, opts, +1)
	case "setvoteminus":
		r.handleAdjust(ctx, re, principal, opts, -1)
	case "uservoteplus":
		r.handleUserAdjust(ctx, re, principal, opts, +1)
	case "uservoteminus":
		r.handleUserAdjust(ctx, re, principal, opts, -1)
	case "setcharacters":
		r.handleSetCharacters(ctx, re, principal, opts)
	case "resetvotes":
		r.handleResetVotes(ctx, re, principal)
	case "active":
		r.handleActive(ctx, re, principal)
	default:
		fmt.Printf("收到未知指令: %s\n", name)
		r.reply(re, msgInternalError)
	}
}

// isPrimaryAdmin 检查主管理员身份（精确匹配用户ID）。
func (r *Router) isPrimaryAdmin(principal string) bool {
	return principal == r.admin.PrimaryID
}

// isAdmin 检查主管理员或副管理员身份。
func (r *Router) isAdmin(principal string) bool {
	return principal == r.admin.PrimaryID || principal == r.admin.SecondaryID
}

func (r *Router) handleVote(ctx context.Context, re Responder, principal string, opts []*commandOption) {
	args, err := parseVoteArgs(opts)
	if err != nil {
		r.reply(re, fmt.Sprintf("指令参数无效: %v", err))
		return
	}

	remaining, err := r.ledger.CastVote(principal, args.Character, args.Points)
	if err != nil {
		r.reply(re, voteErrorMessage(err, args.Character, r.ledger.MyBalance(principal)))
		return
	}

	entry, position := r.votedCharacter(args.Character)
	if saveErr := r.store.SaveVoteCast(ctx, principal, remaining, entry, position); saveErr != nil {
		r.reply(re, msgSaveFailed)
		return
	}

	r.reply(re, fmt.Sprintf("投票成功！你为 **%s** 投了 %d 点，剩余积分 %d。", args.Character, args.Points, remaining))
}

// votedCharacter 返回被投角色的当前状态和它在名单中的位置。
func (r *Router) votedCharacter(name string) (ledger.RosterEntry, int) {
	entry, _ := r.ledger.CharacterEntry(name)
	for i, e := range r.ledger.Roster() {
		if e.Name == name {
			return entry, i
		}
	}
	return entry, 0
}

// voteErrorMessage 把账本的校验错误翻译成给用户的提示。
func voteErrorMessage(err error, character string, balance int) string {
	switch err {
	case ledger.ErrInactive:
		return "投票活动当前未开启。"
	case ledger.ErrUnknownCharacter:
		return fmt.Sprintf("角色 **%s** 不存在或不可投票。", character)
	case ledger.ErrInvalidPoints:
		return "投票点数必须为正整数。"
	case ledger.ErrInsufficientBalance:
		return fmt.Sprintf("你的积分不足（当前 %d 点）。", balance)
	default:
		return msgInternalError
	}
}

func (r *Router) handleMyPoints(re Responder, principal string) {
	r.reply(re, fmt.Sprintf("你当前拥有 %d 点积分。", r.ledger.MyBalance(principal)))
}

func (r *Router) handleLeaderboard(re Responder) {
	entries := r.ledger.Leaderboard()
	if len(entries) == 0 {
		r.reply(re, "当前没有可投票的角色。")
		return
	}

	var sb strings.Builder
	sb.WriteString("当前排行榜：\n")
	for i, entry := range entries {
		fmt.Fprintf(&sb, "%d. **%s** — %d 点\n", i+1, entry.Name, entry.TotalPoints)
	}
	r.reply(re, sb.String())
}

func (r *Router) handleAdjust(ctx context.Context, re Responder, principal string, opts []*commandOption, sign int) {
	if !r.isAdmin(principal) {
		r.reply(re, msgDenied)
		return
	}

	args, err := parseAdjustArgs(opts)
	if err != nil {
		r.reply(re, fmt.Sprintf("指令参数无效: %v", err))
		return
	}

	if args.RoleID != "" {
		r.bulkAdjust(ctx, re, args.RoleID, sign*args.Points)
		return
	}

	r.adjustSingle(ctx, re, args.UserID, sign*args.Points)
}

func (r *Router) handleUserAdjust(ctx context.Context, re Responder, principal string, opts []*commandOption, sign int) {
	if !r.isAdmin(principal) {
		r.reply(re, msgDenied)
		return
	}

	args, err := parseUserAdjustArgs(opts)
	if err != nil {
		r.reply(re, fmt.Sprintf("指令参数无效: %v", err))
		return
	}

	r.adjustSingle(ctx, re, args.UserID, sign*args.Points)
}

// adjustSingle 对单个用户应用一次积分调整并整表落盘。
func (r *Router) adjustSingle(ctx context.Context, re Responder, userID string, delta int) {
	balance := r.ledger.AdjustBalance(userID, delta)

	if err := r.store.SaveBalances(ctx, r.ledger.Balances()); err != nil {
		r.reply(re, msgSaveFailed)
		return
	}

	r.reply(re, fmt.Sprintf("已调整 <@%s> 的积分（%+d），当前余额 %d。", userID, delta, balance))
}

func (r *Router) handleSetCharacters(ctx context.Context, re Responder, principal string, opts []*commandOption) {
	if !r.isAdmin(principal) {
		r.reply(re, msgDenied)
		return
	}

	args, err := parseRosterArgs(opts)
	if err != nil {
		r.reply(re, fmt.Sprintf("指令参数无效: %v", err))
		return
	}

	entries := r.ledger.SetRoster(args.Names)
	if saveErr := r.store.SaveRoster(ctx, entries); saveErr != nil {
		r.reply(re, msgSaveFailed)
		return
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	r.reply(re, fmt.Sprintf("角色名单已更新（%d 个角色）：%s", len(entries), strings.Join(names, "、")))
}

func (r *Router) handleResetVotes(ctx context.Context, re Responder, principal string) {
	if !r.isAdmin(principal) {
		r.reply(re, msgDenied)
		return
	}

	r.ledger.ResetVotes()
	if err := r.store.DeleteVotesAndRoster(ctx); err != nil {
		r.reply(re, msgSaveFailed)
		return
	}

	r.reply(re, "投票记录和角色名单已清空，用户积分保持不变。")
}

func (r *Router) handleActive(ctx context.Context, re Responder, principal string) {
	// 开关投票活动是主管理员的专属权限
	if !r.isPrimaryAdmin(principal) {
		r.reply(re, msgDenied)
		return
	}

	active := r.ledger.ToggleActive()
	if err := r.store.SaveActivation(ctx, active); err != nil {
		r.reply(re, msgSaveFailed)
		return
	}

	if active {
		r.reply(re, "投票活动已开启！")
	} else {
		r.reply(re, "投票活动已关闭。")
	}
}

// reply 发送回应并在失败时尽力记录。
// 交互通道可能已经过期，此时除了记录日志没有别的可做。
func (r *Router) reply(re Responder, content string) {
	if err := re.Reply(content); err != nil {
		fmt.Printf("警告: 无法发送回应（交互可能已过期）: %v\n", err)
	}
}

// followup 发送后续消息并在失败时尽力记录。
func (r *Router) followup(re Responder, content string) {
	if err := re.Followup(content); err != nil {
		fmt.Printf("警告: 无法发送后续消息（交互可能已过期）: %v\n", err)
	}
}
