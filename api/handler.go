package api

import (
	"net/http"

	"github.com/SlpAus/chara-vote-bot/internal/platform/database"
	"github.com/gin-gonic/gin"
)

type handler struct {
	deps Deps
}

// RankingCharacterResponse 是排行榜接口的响应模型
type RankingCharacterResponse struct {
	Rank        int    `json:"rank"`
	Name        string `json:"name"`
	TotalPoints int    `json:"totalPoints"`
}

// GetRanking 返回按票数降序的角色排行榜。
// 优先读取Redis镜像，镜像不可用时回退到内存账本。
func (h *handler) GetRanking(c *gin.Context) {
	entries, err := h.deps.Gateway.Ranking(c.Request.Context())
	if err != nil {
		entries = h.deps.Ledger.Leaderboard()
	}

	response := make([]RankingCharacterResponse, 0, len(entries))
	for i, entry := range entries {
		response = append(response, RankingCharacterResponse{
			Rank:        i + 1,
			Name:        entry.Name,
			TotalPoints: entry.TotalPoints,
		})
	}

	c.JSON(http.StatusOK, response)
}

// GetStatus 返回投票活动的开关状态和实例标识。
func (h *handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"active":     h.deps.Ledger.Active(),
		"instanceId": h.deps.InstanceID,
	})
}

// GetHealth 返回后台健康检查器维护的存储健康状态。
func (h *handler) GetHealth(c *gin.Context) {
	storeHealthy := database.IsStoreHealthy()
	status := http.StatusOK
	if !storeHealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"store": storeHealthy,
		"redis": database.IsRedisHealthy(),
	})
}
