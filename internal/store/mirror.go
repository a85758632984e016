package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/SlpAus/chara-vote-bot/internal/ledger"
	"github.com/redis/go-redis/v9"
)

// RankingKey 是一个Redis Sorted Set，按总票数实时排序角色。
// 它只是排行榜的热镜像，供只读HTTP接口使用；权威数据始终在内存账本中。
const RankingKey = "chara:ranking"

// WarmupRanking 用当前名单整体重建Redis排行榜镜像。
// 镜像写入失败只记录日志，不影响主流程（fail open）。
func (g *Gateway) WarmupRanking(ctx context.Context, entries []ledger.RosterEntry) {
	if g.rdb == nil {
		return
	}

	pipe := g.rdb.Pipeline()
	pipe.Del(ctx, RankingKey)
	for _, entry := range entries {
		pipe.ZAdd(ctx, RankingKey, redis.Z{
			Score:  float64(entry.TotalPoints),
			Member: entry.Name,
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		fmt.Printf("警告: 重建排行榜镜像失败: %v\n", err)
		return
	}
	fmt.Printf("成功重建 %d 个角色的排行榜镜像。\n", len(entries))
}

// bumpRanking 在单次投票后更新被投角色的镜像分数。
func (g *Gateway) bumpRanking(ctx context.Context, name string, total int) {
	if g.rdb == nil {
		return
	}
	err := g.rdb.ZAdd(ctx, RankingKey, redis.Z{
		Score:  float64(total),
		Member: name,
	}).Err()
	if err != nil {
		fmt.Printf("警告: 更新排行榜镜像失败: %v\n", err)
	}
}

// clearRanking 清空排行榜镜像。
func (g *Gateway) clearRanking(ctx context.Context) {
	if g.rdb == nil {
		return
	}
	if err := g.rdb.Del(ctx, RankingKey).Err(); err != nil {
		fmt.Printf("警告: 清空排行榜镜像失败: %v\n", err)
	}
}

// Ranking 从镜像中按分数降序读取排行榜。
// 镜像不可用时返回错误，由调用方回退到内存账本。
func (g *Gateway) Ranking(ctx context.Context) ([]ledger.RosterEntry, error) {
	if g.rdb == nil {
		return nil, errors.New("排行榜镜像未启用")
	}

	zs, err := g.rdb.ZRevRangeWithScores(ctx, RankingKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("读取排行榜镜像失败: %w", err)
	}

	entries := make([]ledger.RosterEntry, 0, len(zs))
	for _, z := range zs {
		name, _ := z.Member.(string)
		entries = append(entries, ledger.RosterEntry{
			Name:        name,
			TotalPoints: int(z.Score),
		})
	}
	return entries, nil
}
