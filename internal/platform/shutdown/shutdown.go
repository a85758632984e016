package shutdown

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SlpAus/chara-vote-bot/internal/bot"
	"github.com/SlpAus/chara-vote-bot/internal/ledger"
	"github.com/SlpAus/chara-vote-bot/internal/store"
	"github.com/SlpAus/chara-vote-bot/pkg/lifecycle"
)

// Coordinator 负责编排应用程序的优雅停机流程。
type Coordinator struct {
	Manager *lifecycle.Manager

	Gateway *store.Gateway
	Ledger  *ledger.Ledger
}

// NewCoordinator 创建一个新的停机协调器。
func NewCoordinator(mgr *lifecycle.Manager, gw *store.Gateway, lg *ledger.Ledger) *Coordinator {
	return &Coordinator{Manager: mgr, Gateway: gw, Ledger: lg}
}

// ListenForSignalsAndShutdown 启动信号监听并阻塞，直到停机流程完成。
// 顺序：断开Discord → 关闭HTTP → 停掉后台服务 → 最终落盘。
func (c *Coordinator) ListenForSignalsAndShutdown(server *http.Server, discordBot *bot.Bot) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 阻塞直到接收到停机信号
	<-sigChan
	fmt.Println("\n收到关闭信号，开始优雅停机...")

	// 先断开Discord网关，不再接收新指令
	if err := discordBot.Close(); err != nil {
		fmt.Printf("Discord会话关闭错误: %v\n", err)
	} else {
		fmt.Println("Discord会话已关闭。")
	}

	// 关闭HTTP服务器，允许正在进行的请求完成
	httpTimeout := 15 * time.Second
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), httpTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("HTTP服务器关闭错误: %v\n", err)
	} else {
		fmt.Println("HTTP服务器已关闭。")
	}

	// 通知后台服务退出并等待
	gracefulTimeout := 30 * time.Second
	c.Manager.Shutdown()
	remaining := c.Manager.WaitWithTimeout(gracefulTimeout)
	if len(remaining) == 0 {
		fmt.Println("所有后台服务已优雅关闭。")
	} else {
		fmt.Printf("警告: 以下服务未在 %v 内退出: %v\n", gracefulTimeout, remaining)
	}

	// 最终落盘：内存状态可能领先于持久化状态，停机前补一次完整写入
	fmt.Println("正在执行最终落盘...")
	finalCtx, finalCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer finalCancel()
	if err := c.Gateway.SaveBalances(finalCtx, c.Ledger.Balances()); err != nil {
		fmt.Printf("最终落盘失败（余额）: %v\n", err)
	}
	if err := c.Gateway.SaveActivation(finalCtx, c.Ledger.Active()); err != nil {
		fmt.Printf("最终落盘失败（活动状态）: %v\n", err)
	}
	if roster := c.Ledger.Roster(); len(roster) > 0 {
		if err := c.Gateway.SaveRoster(finalCtx, roster); err != nil {
			fmt.Printf("最终落盘失败（角色名单）: %v\n", err)
		}
	}

	fmt.Println("优雅停机完成。")
}
