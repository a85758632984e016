package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 结构体定义了应用程序的所有配置项
// 所有配置项均来自环境变量（可通过.env文件注入）
type Config struct {
	Discord DiscordConfig
	Admin   AdminConfig
	Store   StoreConfig
	Redis   RedisConfig
	Server  ServerConfig
}

// DiscordConfig 定义了Discord网关相关的配置
type DiscordConfig struct {
	Token   string
	AppID   string
	GuildID string
}

// AdminConfig 定义了管理员身份相关的配置
// PrimaryID 拥有全部管理权限（包括开关投票活动）
// SecondaryID 拥有积分调整和角色名单管理权限
type AdminConfig struct {
	PrimaryID   string
	SecondaryID string
}

// StoreConfig 定义了远程数据库相关的配置
type StoreConfig struct {
	// Driver 可选 "postgres"（默认，远程存储）或 "sqlite"（本地开发）
	Driver string
	// URL 是不含密码的key-value形式DSN，例如 "host=... user=... dbname=..."
	URL string
	// Key 是数据库的访问密钥，会作为password拼接到DSN中
	Key string
	// SqlitePath 是sqlite模式下的数据库文件路径
	SqlitePath string
}

// RedisConfig 定义了Redis排行榜镜像的配置
// Redis是可选的：连接失败只会关闭镜像功能，不影响主流程
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// ServerConfig 定义了只读HTTP服务的配置
type ServerConfig struct {
	Address        string
	AllowedOrigins []string
}

// DSN 根据URL和Key拼接出完整的postgres连接串
func (c *StoreConfig) DSN() string {
	if c.Key == "" {
		return c.URL
	}
	return fmt.Sprintf("%s password=%s", strings.TrimSpace(c.URL), c.Key)
}

// requiredKeys 列出了启动时必须存在的环境变量
var requiredKeys = []string{
	"DISCORD_TOKEN",
	"DISCORD_APP_ID",
	"DISCORD_GUILD_ID",
	"ADMIN_USER_ID",
	"SECOND_ADMIN_USER_ID",
	"DATABASE_URL",
	"DATABASE_KEY",
}

// LoadConfig 从环境变量加载并校验配置
// 任何必需项缺失都会立刻返回错误，而不是带着未定义的行为继续启动
func LoadConfig() (*Config, error) {
	// .env文件是可选的，生产环境直接使用环境变量
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	// 可选项的默认值
	v.SetDefault("STORE_DRIVER", "postgres")
	v.SetDefault("SQLITE_PATH", "votes.db")
	v.SetDefault("HTTP_ADDRESS", ":8080")
	v.SetDefault("REDIS_ADDRESS", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	var missing []string
	for _, key := range requiredKeys {
		if v.GetString(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("缺少必需的环境变量: %s", strings.Join(missing, ", "))
	}

	driver := v.GetString("STORE_DRIVER")
	if driver != "postgres" && driver != "sqlite" {
		return nil, fmt.Errorf("无效的STORE_DRIVER: %q (可选 postgres / sqlite)", driver)
	}

	cfg := &Config{
		Discord: DiscordConfig{
			Token:   v.GetString("DISCORD_TOKEN"),
			AppID:   v.GetString("DISCORD_APP_ID"),
			GuildID: v.GetString("DISCORD_GUILD_ID"),
		},
		Admin: AdminConfig{
			PrimaryID:   v.GetString("ADMIN_USER_ID"),
			SecondaryID: v.GetString("SECOND_ADMIN_USER_ID"),
		},
		Store: StoreConfig{
			Driver:     driver,
			URL:        v.GetString("DATABASE_URL"),
			Key:        v.GetString("DATABASE_KEY"),
			SqlitePath: v.GetString("SQLITE_PATH"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("REDIS_ADDRESS"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Server: ServerConfig{
			Address:        v.GetString("HTTP_ADDRESS"),
			AllowedOrigins: strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ","),
		},
	}

	return cfg, nil
}
