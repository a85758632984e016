package bot

import (
	"fmt"

	"github.com/SlpAus/chara-vote-bot/internal/platform/config"
	"github.com/bwmarrin/discordgo"
)

// Bot 持有Discord会话并把交互事件送入命令路由。
type Bot struct {
	session *discordgo.Session
	router  *Router
	cfg     config.DiscordConfig
}

// New 创建Discord会话并注册事件处理器，此时尚未建立连接。
// 命令路由依赖会话本身（成员查询），因此通过SetRouter在之后注入。
func New(cfg config.DiscordConfig, router *Router) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("无法创建Discord会话: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	b := &Bot{
		session: session,
		router:  router,
		cfg:     cfg,
	}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteractionCreate)

	return b, nil
}

// Session 暴露底层会话，供批量调整查询成员列表使用。
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

// SetRouter 注入命令路由，必须在Start之前调用。
func (b *Bot) SetRouter(router *Router) {
	b.router = router
}

// Start 建立网关连接并在目标服务器整体覆盖注册斜杠指令。
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("无法连接到Discord网关: %w", err)
	}

	fmt.Println("正在注册斜杠指令...")
	_, err := b.session.ApplicationCommandBulkOverwrite(b.cfg.AppID, b.cfg.GuildID, commandDefinitions)
	if err != nil {
		return fmt.Errorf("注册斜杠指令失败: %w", err)
	}
	fmt.Printf("成功注册 %d 条斜杠指令。\n", len(commandDefinitions))

	return nil
}

// Close 断开网关连接。
func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	fmt.Printf("机器人已上线: %s\n", r.User.Username)
}

// onInteractionCreate 把一次斜杠指令交互翻译成路由调用：
// 发起人ID + 指令名 + 原始选项。
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if b.router == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	principal := ""
	if i.Member != nil && i.Member.User != nil {
		principal = i.Member.User.ID
	} else if i.User != nil {
		principal = i.User.ID
	}

	data := i.ApplicationCommandData()
	re := &interactionResponder{session: s, interaction: i.Interaction}
	b.router.Dispatch(re, principal, data.Name, data.Options)
}
