package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/chara-vote-bot/api"
	"github.com/SlpAus/chara-vote-bot/internal/bot"
	"github.com/SlpAus/chara-vote-bot/internal/ledger"
	"github.com/SlpAus/chara-vote-bot/internal/platform/config"
	"github.com/SlpAus/chara-vote-bot/internal/platform/database"
	"github.com/SlpAus/chara-vote-bot/internal/platform/health"
	"github.com/SlpAus/chara-vote-bot/internal/platform/shutdown"
	"github.com/SlpAus/chara-vote-bot/internal/platform/startup"
	"github.com/SlpAus/chara-vote-bot/internal/store"
	"github.com/SlpAus/chara-vote-bot/pkg/lifecycle"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("配置加载失败，无法启动: %v", err))
	}

	// instanceID 用于在日志和状态接口中区分不同的进程实例
	instanceID := uuid.NewString()
	fmt.Printf("实例ID: %s\n", instanceID)

	db, err := database.InitDB(cfg.Store)
	if err != nil {
		panic(fmt.Sprintf("数据库初始化失败，无法启动: %v", err))
	}
	rdb := database.InitRedis(cfg.Redis)

	lg := ledger.New()
	gateway := store.NewGateway(db, rdb)

	// 启动时的持久化存储完全不可达是唯一的致命错误
	if err := startup.InitializeApplication(context.Background(), gateway, lg); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// Discord网关与命令路由
	discordBot, err := bot.New(cfg.Discord, nil)
	if err != nil {
		panic(fmt.Sprintf("Discord初始化失败，无法启动: %v", err))
	}
	router := bot.NewRouter(lg, gateway, cfg, discordBot.Session())
	discordBot.SetRouter(router)

	if err := discordBot.Start(); err != nil {
		panic(fmt.Sprintf("Discord连接失败，无法启动: %v", err))
	}

	// 只读HTTP面：排行榜、活动状态、健康检查
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	api.SetupRoutes(r, api.Deps{
		Ledger:     lg,
		Gateway:    gateway,
		InstanceID: instanceID,
	})

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}
	go func() {
		fmt.Printf("HTTP服务器开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("HTTP服务器错误: %v\n", err)
		}
	}()

	// 后台健康检查器
	manager := lifecycle.NewManager()
	checkerHandle, err := manager.NewServiceHandle("health-checker")
	if err != nil {
		panic(err)
	}
	go health.NewChecker(gateway, lg, rdb).Run(checkerHandle)

	fmt.Println("服务已准备就绪。")
	coordinator := shutdown.NewCoordinator(manager, gateway, lg)
	coordinator.ListenForSignalsAndShutdown(server, discordBot)
}
