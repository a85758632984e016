package api

import (
	"github.com/SlpAus/chara-vote-bot/internal/ledger"
	"github.com/SlpAus/chara-vote-bot/internal/store"
	"github.com/gin-gonic/gin"
)

// Deps 是HTTP层的依赖集合，由main在启动时装配。
type Deps struct {
	Ledger     *ledger.Ledger
	Gateway    *store.Gateway
	InstanceID string
}

// SetupRoutes 注册项目的所有API路由
// HTTP面是只读的：所有变更都只通过Discord指令进行。
func SetupRoutes(router *gin.Engine, deps Deps) {
	h := &handler{deps: deps}

	api := router.Group("/api")
	{
		// 角色相关的路由组 /api/characters
		characterRoutes := api.Group("/characters")
		{
			characterRoutes.GET("/ranking", h.GetRanking)
		}

		// 活动状态
		api.GET("/status", h.GetStatus)
	}

	router.GET("/healthz", h.GetHealth)
}
