package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/chara-vote-bot/internal/ledger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSaveFailed 是所有写入失败对上层暴露的统一信号。
// 具体原因只记录日志，命令层据此回复一条通用的稍后重试消息。
var ErrSaveFailed = errors.New("保存数据失败")

// botStatusID 是bot_status表中单例记录的固定主键。
const botStatusID = 1

// Gateway 是内存账本与持久化存储之间的唯一通道。
// 它只做四类集合的读写翻译，不包含任何业务逻辑。
type Gateway struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewGateway 创建持久化网关。rdb可以为nil，此时排行榜镜像被跳过。
func NewGateway(db *gorm.DB, rdb *redis.Client) *Gateway {
	return &Gateway{db: db, rdb: rdb}
}

// AutoMigrate 迁移全部四张表的结构。
func (g *Gateway) AutoMigrate() error {
	err := g.db.AutoMigrate(
		&ledger.UserPoint{},
		&ledger.Character{},
		&ledger.UserVote{},
		&ledger.BotStatus{},
	)
	if err != nil {
		return fmt.Errorf("无法迁移数据库表结构: %w", err)
	}
	fmt.Println("数据库表迁移成功。")
	return nil
}

// Ping 检查数据库连接是否可用。
func (g *Gateway) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// LoadAll 从四张表读取全部状态组装成快照，仅在启动时调用。
// 单表读取失败按空集合处理并记录日志（fail open）；
// 调用方只需在数据库完全不可达时才中止启动。
func (g *Gateway) LoadAll(ctx context.Context) (ledger.Snapshot, error) {
	if err := g.Ping(ctx); err != nil {
		return ledger.Snapshot{}, fmt.Errorf("无法连接到持久化存储: %w", err)
	}

	snap := ledger.Snapshot{
		Balances:    make(map[string]int),
		VotesByUser: make(map[string]map[string]int),
	}

	var users []ledger.UserPoint
	if err := g.db.WithContext(ctx).Find(&users).Error; err != nil {
		fmt.Printf("警告: 读取user_point失败，按空表继续: %v\n", err)
	} else {
		for _, u := range users {
			snap.Balances[u.UserID] = u.UserPoint
		}
	}

	var characters []ledger.Character
	if err := g.db.WithContext(ctx).Order("position asc").Find(&characters).Error; err != nil {
		fmt.Printf("警告: 读取characters失败，按空表继续: %v\n", err)
	} else {
		for _, c := range characters {
			snap.Roster = append(snap.Roster, ledger.RosterEntry{
				Name:        c.CharacterName,
				Available:   c.Available,
				TotalPoints: c.PointsCharacters,
			})
		}
	}

	// user_votes每个用户只有一行（以用户为键覆盖写入），
	// 重启后只能恢复每个用户最后一次投票的去向，早先投给其他角色的
	// 明细已经丢失。角色总票数以characters表为准，不受此影响。
	var votes []ledger.UserVote
	if err := g.db.WithContext(ctx).Find(&votes).Error; err != nil {
		fmt.Printf("警告: 读取user_votes失败，按空表继续: %v\n", err)
	} else {
		for _, v := range votes {
			snap.VotesByUser[v.UserID] = map[string]int{v.CharacterName: v.PointsVote}
		}
	}

	var status ledger.BotStatus
	if err := g.db.WithContext(ctx).First(&status, botStatusID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("警告: 读取bot_status失败，按未激活继续: %v\n", err)
		}
	} else {
		snap.Active = status.IsActive
	}

	return snap, nil
}

// SaveBalances 将余额表整体落盘，每行以用户ID为键整行覆盖。
func (g *Gateway) SaveBalances(ctx context.Context, balances map[string]int) error {
	if len(balances) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]ledger.UserPoint, 0, len(balances))
	for id, balance := range balances {
		rows = append(rows, ledger.UserPoint{UserID: id, UserPoint: balance, UpdatedAt: now})
	}

	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&rows).Error
	if err != nil {
		fmt.Printf("持久化错误: 写入user_point失败: %v\n", err)
		return ErrSaveFailed
	}
	return nil
}

// SaveVoteCast 落盘一次投票涉及的全部状态：用户余额行、投票记录行
// 和被投角色行。三次写入相互独立，不在一个事务中，写入之间失败
// 会留下短暂的不一致，由下一次成功的落盘覆盖修正。
func (g *Gateway) SaveVoteCast(ctx context.Context, userID string, remaining int, entry ledger.RosterEntry, position int) error {
	now := time.Now()

	userRow := ledger.UserPoint{UserID: userID, UserPoint: remaining, UpdatedAt: now}
	if err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&userRow).Error; err != nil {
		fmt.Printf("持久化错误: 写入user_point失败: %v\n", err)
		return ErrSaveFailed
	}

	// 以用户为键覆盖写入：points_vote存的是投票后的剩余积分，
	// 沿用既有表结构的语义。
	voteRow := ledger.UserVote{
		UserID:        userID,
		PointsVote:    remaining,
		CharacterName: entry.Name,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"points_vote", "character_name", "updated_at"}),
	}).Create(&voteRow).Error; err != nil {
		fmt.Printf("持久化错误: 写入user_votes失败: %v\n", err)
		return ErrSaveFailed
	}

	charRow := ledger.Character{
		CharacterName:    entry.Name,
		Available:        entry.Available,
		PointsCharacters: entry.TotalPoints,
		Position:         position,
	}
	if err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "character_name"}},
		UpdateAll: true,
	}).Create(&charRow).Error; err != nil {
		fmt.Printf("持久化错误: 写入characters失败: %v\n", err)
		return ErrSaveFailed
	}

	g.bumpRanking(ctx, entry.Name, entry.TotalPoints)
	return nil
}

// SaveRoster 将名单按写入顺序落盘，每行以角色名为键覆盖。
func (g *Gateway) SaveRoster(ctx context.Context, entries []ledger.RosterEntry) error {
	if len(entries) > 0 {
		rows := make([]ledger.Character, 0, len(entries))
		for i, entry := range entries {
			rows = append(rows, ledger.Character{
				CharacterName:    entry.Name,
				Available:        entry.Available,
				PointsCharacters: entry.TotalPoints,
				Position:         i,
			})
		}

		err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "character_name"}},
			UpdateAll: true,
		}).Create(&rows).Error
		if err != nil {
			fmt.Printf("持久化错误: 写入characters失败: %v\n", err)
			return ErrSaveFailed
		}
	}

	g.WarmupRanking(ctx, entries)
	return nil
}

// SaveActivation 覆盖写入bot_status的单例记录。
func (g *Gateway) SaveActivation(ctx context.Context, active bool) error {
	row := ledger.BotStatus{ID: botStatusID, IsActive: active, LastUpdated: time.Now()}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		fmt.Printf("持久化错误: 写入bot_status失败: %v\n", err)
		return ErrSaveFailed
	}
	return nil
}

// DeleteVotesAndRoster 清空user_votes和characters两张表，
// user_point保持不变。
func (g *Gateway) DeleteVotesAndRoster(ctx context.Context) error {
	if err := g.db.WithContext(ctx).Where("1 = 1").Delete(&ledger.UserVote{}).Error; err != nil {
		fmt.Printf("持久化错误: 清空user_votes失败: %v\n", err)
		return ErrSaveFailed
	}
	if err := g.db.WithContext(ctx).Where("1 = 1").Delete(&ledger.Character{}).Error; err != nil {
		fmt.Printf("持久化错误: 清空characters失败: %v\n", err)
		return ErrSaveFailed
	}

	g.clearRanking(ctx)
	return nil
}
