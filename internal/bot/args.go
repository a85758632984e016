package bot

import (
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// 参数解析在到达账本之前完成：所有指令的选项都会被解析成
// 强类型的参数结构体，格式错误或缺失的参数在这里就被拦下。

type commandOption = discordgo.ApplicationCommandInteractionDataOption

// optionMap 将选项列表转换成按名字索引的map。
func optionMap(opts []*commandOption) map[string]*commandOption {
	m := make(map[string]*commandOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// voteArgs 是vote指令的参数。
type voteArgs struct {
	Character string
	Points    int
}

func parseVoteArgs(opts []*commandOption) (voteArgs, error) {
	m := optionMap(opts)

	charOpt, ok := m["character"]
	if !ok {
		return voteArgs{}, errors.New("缺少参数 character")
	}
	character := strings.TrimSpace(charOpt.StringValue())
	if character == "" {
		return voteArgs{}, errors.New("角色名不能为空")
	}

	pointsOpt, ok := m["points"]
	if !ok {
		return voteArgs{}, errors.New("缺少参数 points")
	}
	points := int(pointsOpt.IntValue())
	if points <= 0 {
		return voteArgs{}, errors.New("points 必须为正整数")
	}

	return voteArgs{Character: character, Points: points}, nil
}

// adjustArgs 是setvoteplus/setvoteminus指令的参数。
// UserID和RoleID恰好有一个非空。
type adjustArgs struct {
	UserID string
	RoleID string
	Points int
}

func parseAdjustArgs(opts []*commandOption) (adjustArgs, error) {
	m := optionMap(opts)

	pointsOpt, ok := m["points"]
	if !ok {
		return adjustArgs{}, errors.New("缺少参数 points")
	}
	points := int(pointsOpt.IntValue())
	if points <= 0 {
		return adjustArgs{}, errors.New("points 必须为正整数")
	}

	userOpt, hasUser := m["user"]
	roleOpt, hasRole := m["role"]
	if hasUser == hasRole {
		return adjustArgs{}, errors.New("必须在 user 和 role 中指定且仅指定一个目标")
	}

	args := adjustArgs{Points: points}
	if hasUser {
		user := userOpt.UserValue(nil)
		if user == nil || user.ID == "" {
			return adjustArgs{}, errors.New("无效的目标用户")
		}
		args.UserID = user.ID
	} else {
		role := roleOpt.RoleValue(nil, "")
		if role == nil || role.ID == "" {
			return adjustArgs{}, errors.New("无效的目标身份组")
		}
		args.RoleID = role.ID
	}

	return args, nil
}

// userAdjustArgs 是uservoteplus/uservoteminus指令的参数。
type userAdjustArgs struct {
	UserID string
	Points int
}

func parseUserAdjustArgs(opts []*commandOption) (userAdjustArgs, error) {
	m := optionMap(opts)

	userOpt, ok := m["user"]
	if !ok {
		return userAdjustArgs{}, errors.New("缺少参数 user")
	}
	user := userOpt.UserValue(nil)
	if user == nil || user.ID == "" {
		return userAdjustArgs{}, errors.New("无效的目标用户")
	}

	pointsOpt, ok := m["points"]
	if !ok {
		return userAdjustArgs{}, errors.New("缺少参数 points")
	}
	points := int(pointsOpt.IntValue())
	if points <= 0 {
		return userAdjustArgs{}, errors.New("points 必须为正整数")
	}

	return userAdjustArgs{UserID: user.ID, Points: points}, nil
}

// rosterArgs 是setcharacters指令的参数。
type rosterArgs struct {
	Names []string
}

func parseRosterArgs(opts []*commandOption) (rosterArgs, error) {
	m := optionMap(opts)

	charsOpt, ok := m["characters"]
	if !ok {
		return rosterArgs{}, errors.New("缺少参数 characters")
	}

	var names []string
	for _, name := range strings.Split(charsOpt.StringValue(), ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return rosterArgs{}, errors.New("角色名单不能为空")
	}

	return rosterArgs{Names: names}, nil
}
