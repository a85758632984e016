package startup

import (
	"context"
	"fmt"

	"github.com/SlpAus/chara-vote-bot/internal/ledger"
	"github.com/SlpAus/chara-vote-bot/internal/store"
)

// InitializeApplication 是应用首次启动时执行的总入口：
// 迁移表结构、从持久化存储读取快照、装载内存账本、预热排行榜镜像。
// 只有数据库完全不可达才返回错误；单表读取失败会按空集合继续。
func InitializeApplication(ctx context.Context, gw *store.Gateway, lg *ledger.Ledger) error {
	fmt.Println("开始应用首次初始化...")

	if err := gw.AutoMigrate(); err != nil {
		return err
	}

	snap, err := gw.LoadAll(ctx)
	if err != nil {
		return err
	}
	lg.LoadAll(snap)
	fmt.Printf("账本装载完成: %d 个用户，%d 个角色，活动状态=%v。\n",
		len(snap.Balances), len(snap.Roster), snap.Active)

	gw.WarmupRanking(ctx, lg.Roster())

	fmt.Println("应用初始化完成！")
	return nil
}
