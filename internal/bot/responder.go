package bot

import (
	"github.com/bwmarrin/discordgo"
)

// Responder 抽象了一次交互的回应通道，
// 使命令路由可以在不连接Discord的情况下被测试。
type Responder interface {
	// Reply 发送本次交互的首条回应。
	Reply(content string) error
	// Defer 先行确认交互，为耗时较长的指令争取时间。
	Defer() error
	// Followup 在Defer之后发送后续消息，可多次调用。
	Followup(content string) error
}

// interactionResponder 是Responder在discordgo交互上的实现。
type interactionResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

func (r *interactionResponder) Reply(content string) error {
	return r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

func (r *interactionResponder) Defer() error {
	return r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func (r *interactionResponder) Followup(content string) error {
	_, err := r.session.FollowupMessageCreate(r.interaction, true, &discordgo.WebhookParams{
		Content: content,
	})
	return err
}
