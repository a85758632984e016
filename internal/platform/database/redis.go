package database

import (
	"context"
	"fmt"

	"github.com/SlpAus/chara-vote-bot/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// Ctx 是一个全局的上下文，用于Redis操作
var Ctx = context.Background()

// InitRedis 初始化与Redis的连接
// Redis只承担排行榜镜像，连接失败时返回nil并继续运行，镜像功能随之关闭
func InitRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Address == "" {
		fmt.Println("未配置Redis地址，排行榜镜像已关闭。")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 使用Ping命令来测试连接是否成功
	if _, err := rdb.Ping(Ctx).Result(); err != nil {
		fmt.Printf("警告: 无法连接到Redis，排行榜镜像已关闭: %v\n", err)
		return nil
	}

	fmt.Println("Redis 连接成功！")
	return rdb
}
