package ledger

import (
	"time"
)

// UserPoint 定义了用户积分在数据库中的持久化模型。
// 每个用户一行，写入时整行覆盖。
type UserPoint struct {
	// UserID 是用户的Discord ID，作为主键。
	UserID string `gorm:"primarykey;type:varchar(32)" json:"user_id"`

	// UserPoint 是用户当前的积分余额。
	UserPoint int `json:"user_point"`

	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定持久化表名
func (UserPoint) TableName() string {
	return "user_point"
}

// Character 定义了参与投票的角色在数据库中的持久化模型。
type Character struct {
	// CharacterName 是角色名，作为主键。
	CharacterName string `gorm:"primarykey;type:varchar(64)" json:"character_name"`

	// Available 表示该角色当前是否可以被投票。
	Available bool `json:"available"`

	// PointsCharacters 是该角色累计收到的全部票数。
	PointsCharacters int `json:"points_characters"`

	// Position 记录角色在名单中的写入顺序，
	// 用于在重启后恢复排行榜的同分次序。
	Position int `json:"position"`
}

// TableName 指定持久化表名
func (Character) TableName() string {
	return "characters"
}

// UserVote 定义了投票记录在数据库中的持久化模型。
// 每个用户只保留一行，以用户为键覆盖写入：同一用户再次投票时，
// 之前投给其他角色的记录会被覆盖，内存中的分角色累计不受影响。
type UserVote struct {
	// UserID 是投票用户的Discord ID，作为主键。
	UserID string `gorm:"primarykey;type:varchar(32)" json:"user_id"`

	// PointsVote 记录投票后用户剩余的积分。
	// 注意：这里存的是余额而不是本次花费，沿用既有表结构的语义。
	PointsVote int `json:"points_vote"`

	// CharacterName 是本次投票的角色名。
	CharacterName string `json:"character_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定持久化表名
func (UserVote) TableName() string {
	return "user_votes"
}

// BotStatus 定义了机器人激活开关的持久化模型。
// 这张表中应该只有一条id=1的记录。
type BotStatus struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	IsActive    bool      `json:"is_active"`
	LastUpdated time.Time `json:"last_updated"`
}

// TableName 指定持久化表名
func (BotStatus) TableName() string {
	return "bot_status"
}
