package bot

import (
	"github.com/bwmarrin/discordgo"
)

// minPoints 是积分类参数的下限，在Discord侧就挡掉非正数。
var minPoints = float64(1)

// commandDefinitions 列出了机器人在目标服务器注册的全部斜杠指令。
// 启动时整体覆盖注册（bulk overwrite），与定义不符的旧指令会被移除。
var commandDefinitions = []*discordgo.ApplicationCommand{
	{
		Name:        "hello",
		Description: "和机器人打个招呼",
	},
	{
		Name:        "vote",
		Description: "消耗积分为角色投票",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "character",
				Description: "要投票的角色名",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "points",
				Description: "投入的积分点数",
				Required:    true,
				MinValue:    &minPoints,
			},
		},
	},
	{
		Name:        "mypoints",
		Description: "查询自己当前的积分余额",
	},
	{
		Name:        "leaderboard",
		Description: "查看角色票数排行榜",
	},
	{
		Name:        "setvoteplus",
		Description: "（管理员）为用户或身份组成员增加积分",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "points",
				Description: "增加的点数",
				Required:    true,
				MinValue:    &minPoints,
			},
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "目标用户（与身份组二选一）",
			},
			{
				Type:        discordgo.ApplicationCommandOptionRole,
				Name:        "role",
				Description: "目标身份组（与用户二选一）",
			},
		},
	},
	{
		Name:        "setvoteminus",
		Description: "（管理员）为用户或身份组成员扣除积分",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "points",
				Description: "扣除的点数",
				Required:    true,
				MinValue:    &minPoints,
			},
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "目标用户（与身份组二选一）",
			},
			{
				Type:        discordgo.ApplicationCommandOptionRole,
				Name:        "role",
				Description: "目标身份组（与用户二选一）",
			},
		},
	},
	{
		Name:        "uservoteplus",
		Description: "（管理员）为单个用户增加积分",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "目标用户",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "points",
				Description: "增加的点数",
				Required:    true,
				MinValue:    &minPoints,
			},
		},
	},
	{
		Name:        "uservoteminus",
		Description: "（管理员）为单个用户扣除积分",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "目标用户",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "points",
				Description: "扣除的点数",
				Required:    true,
				MinValue:    &minPoints,
			},
		},
	},
	{
		Name:        "setcharacters",
		Description: "（管理员）用逗号分隔的名单整体替换可投票角色",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "characters",
				Description: "角色名列表，逗号分隔",
				Required:    true,
			},
		},
	},
	{
		Name:        "resetvotes",
		Description: "（管理员）清空投票记录和角色名单",
	},
	{
		Name:        "active",
		Description: "（主管理员）开启或关闭投票活动",
	},
}
