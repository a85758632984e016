package health

import (
	"context"
	"fmt"
	"time"

	"github.com/SlpAus/chara-vote-bot/internal/ledger"
	"github.com/SlpAus/chara-vote-bot/internal/platform/database"
	"github.com/SlpAus/chara-vote-bot/internal/store"
	"github.com/SlpAus/chara-vote-bot/pkg/lifecycle"
	"github.com/redis/go-redis/v9"
)

const (
	checkInterval = 5 * time.Second
	pingTimeout   = 2 * time.Second
)

// Checker 定期探测数据库和Redis的可用性，并维护全局健康状态。
// Redis从不可用恢复时，会用内存账本重建排行榜镜像。
type Checker struct {
	gateway *store.Gateway
	ledger  *ledger.Ledger
	rdb     *redis.Client
}

// NewChecker 创建健康检查器。rdb可以为nil（未启用镜像）。
func NewChecker(gw *store.Gateway, lg *ledger.Ledger, rdb *redis.Client) *Checker {
	return &Checker{gateway: gw, ledger: lg, rdb: rdb}
}

// PerformCheck 执行一次完整的健康检查和可能的修复操作。
func (c *Checker) PerformCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	database.UpdateStoreStatus(c.gateway.Ping(ctx) == nil)

	if c.rdb == nil {
		return
	}
	redisHealthy := c.rdb.Ping(ctx).Err() == nil
	recovered := database.UpdateRedisStatus(redisHealthy)
	if recovered {
		// Redis重启后镜像内容已丢失，用权威的内存账本重建
		fmt.Println("健康检查: 检测到Redis已恢复，正在重建排行榜镜像...")
		c.gateway.WarmupRanking(context.Background(), c.ledger.Roster())
	}
}

// Run 在后台循环执行健康检查，直到生命周期句柄发出停机信号。
func (c *Checker) Run(handle *lifecycle.Handle) {
	defer handle.Close()
	fmt.Println("存储健康检查器已启动。")

	for {
		if err := handle.Sleep(checkInterval); err != nil {
			fmt.Println("存储健康检查器已停止。")
			return
		}
		c.PerformCheck()
	}
}
