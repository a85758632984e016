package bot

import (
	"context"
	"fmt"
	"time"
)

// memberPageSize 是一次成员查询的最大数量，跟随Discord接口的上限。
const memberPageSize = 1000

// bulkAdjust 对持有指定身份组的全部成员逐个应用积分调整。
//
// 这是一个长耗时操作，流程刻意串行化：
//  1. 开始时一次性快照身份组成员，循环中不再重新查询；
//  2. 按快照顺序逐个调整；
//  3. 每个成员调整后立刻整表落盘，再发送一条进度消息；
//  4. 成员之间插入固定间隔以约束请求频率；
//  5. 循环结束后发送一条总结消息。
//
// 每一步的落盘让部分进度在中途失败时也已经持久化，
// 代价是整个操作的总时长随成员数线性增长。
func (r *Router) bulkAdjust(ctx context.Context, re Responder, roleID string, delta int) {
	if err := re.Defer(); err != nil {
		fmt.Printf("警告: 无法确认交互（可能已过期），批量调整中止: %v\n", err)
		return
	}

	memberIDs, err := r.snapshotRoleMembers(roleID)
	if err != nil {
		fmt.Printf("批量调整错误: 无法获取身份组成员: %v\n", err)
		r.followup(re, "无法获取身份组成员列表，请稍后再试。")
		return
	}
	if len(memberIDs) == 0 {
		r.followup(re, "该身份组下没有任何成员。")
		return
	}

	total := len(memberIDs)
	saveFailures := 0
	for i, userID := range memberIDs {
		balance := r.ledger.AdjustBalance(userID, delta)

		if err := r.store.SaveBalances(ctx, r.ledger.Balances()); err != nil {
			saveFailures++
			r.followup(re, fmt.Sprintf("(%d/%d) <@%s> 已调整（%+d），余额 %d，但保存失败。", i+1, total, userID, delta, balance))
		} else {
			r.followup(re, fmt.Sprintf("(%d/%d) <@%s> 已调整（%+d），当前余额 %d。", i+1, total, userID, delta, balance))
		}

		if r.stepDelay > 0 {
			time.Sleep(r.stepDelay)
		}
	}

	summary := fmt.Sprintf("批量调整完成：共处理 %d 名成员（%+d 点）。", total, delta)
	if saveFailures > 0 {
		summary += fmt.Sprintf(" 其中 %d 次保存失败，数据将在下次成功落盘时修正。", saveFailures)
	}
	r.followup(re, summary)
}

// snapshotRoleMembers 分页拉取服务器成员，返回持有指定身份组的
// 成员ID列表。列表顺序由接口的分页顺序（按ID升序）决定，
// 作为后续循环的固定迭代顺序。
func (r *Router) snapshotRoleMembers(roleID string) ([]string, error) {
	var ids []string
	after := ""
	for {
		members, err := r.members.GuildMembers(r.guildID, after, memberPageSize)
		if err != nil {
			return nil, err
		}
		if len(members) == 0 {
			break
		}

		for _, member := range members {
			if member.User == nil {
				continue
			}
			for _, role := range member.Roles {
				if role == roleID {
					ids = append(ids, member.User.ID)
					break
				}
			}
		}

		after = members[len(members)-1].User.ID
		if len(members) < memberPageSize {
			break
		}
	}
	return ids, nil
}
