package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ChatDDing/model"
	"ChatDDing/pkg/logger"
)

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository 创建基于 GORM 的房间仓储
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Save(ctx context.Context, room *Room) error {
	doc, err := toRoomModel(room)
	if err != nil {
		return fmt.Errorf("room: 序列化失败: %w", err)
	}

	// 主键冲突走整体更新，去重键 (dm_key/inquiry_key) 冲突交给唯一索引
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(doc).Error
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateRoom
		}
		return fmt.Errorf("room: 保存失败: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, roomId int64) (*Room, error) {
	var doc model.ChatRoom
	err := r.db.WithContext(ctx).Where("id = ?", roomId).Take(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("room: 查询失败: %w", err)
	}
	return fromRoomModel(&doc)
}

func (r *gormRepository) FindDmByPair(ctx context.Context, userA, userB int64) (*Room, error) {
	var doc model.ChatRoom
	err := r.db.WithContext(ctx).
		Where("dm_key = ?", DmPairKey(userA, userB)).
		Take(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("room: 查询失败: %w", err)
	}
	return fromRoomModel(&doc)
}

func (r *gormRepository) FindPlaceInquiry(ctx context.Context, contextId, guestId int64) (*Room, error) {
	var doc model.ChatRoom
	err := r.db.WithContext(ctx).
		Where("inquiry_key = ?", InquiryPairKey(contextId, guestId)).
		Take(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("room: 查询失败: %w", err)
	}
	return fromRoomModel(&doc)
}

func (r *gormRepository) FindActiveByParticipant(ctx context.Context, userId int64) ([]*Room, error) {
	var docs []model.ChatRoom
	// participants 是 JSON 数组，用 JSON_CONTAINS 判断成员身份
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusActive).
		Where("JSON_CONTAINS(participants, JSON_OBJECT('user_id', CAST(? AS SIGNED)))", userId).
		Order("last_message_at DESC, id DESC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("room: 查询失败: %w", err)
	}
	return fromRoomModels(docs)
}

func (r *gormRepository) FindPlaceInquiriesByHost(ctx context.Context, hostId, contextId int64) ([]*Room, error) {
	var docs []model.ChatRoom
	// 咨询房间 owner_id 即 host
	query := r.db.WithContext(ctx).
		Where("type = ?", TypePlaceInquiry).
		Where("status = ?", StatusActive).
		Where("owner_id = ?", hostId)
	if contextId > 0 {
		query = query.Where("JSON_EXTRACT(context, '$.context_id') = ?", contextId)
	}
	err := query.Order("last_message_at DESC, id DESC").Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("room: 查询失败: %w", err)
	}
	return fromRoomModels(docs)
}

func (r *gormRepository) FindPendingSupport(ctx context.Context, cursor int64, limit int) ([]*Room, error) {
	var docs []model.ChatRoom
	query := r.db.WithContext(ctx).
		Where("type = ?", TypeSupport).
		Where("status = ?", StatusActive).
		Where("participant_count = ?", 1)
	if cursor > 0 {
		query = query.Where("id > ?", cursor)
	}
	err := query.Order("created_at ASC, id ASC").Limit(limit).Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("room: 查询失败: %w", err)
	}
	return fromRoomModels(docs)
}

func (r *gormRepository) CountPendingSupport(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ChatRoom{}).
		Where("type = ?", TypeSupport).
		Where("status = ?", StatusActive).
		Where("participant_count = ?", 1).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("room: 统计失败: %w", err)
	}
	return count, nil
}

// isDuplicateKeyError MySQL 1062 唯一索引冲突
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "1062") || strings.Contains(msg, "Duplicate entry")
}

// toRoomModel 聚合转持久化文档
func toRoomModel(r *Room) (*model.ChatRoom, error) {
	participantsJSON, err := json.Marshal(r.Participants)
	if err != nil {
		return nil, err
	}

	doc := &model.ChatRoom{
		Id:               r.Id,
		Type:             r.Type,
		Name:             r.Name,
		OwnerId:          r.OwnerId,
		Status:           r.Status,
		Participants:     string(participantsJSON),
		ParticipantCount: len(r.Participants),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.LastMessageAt != nil {
		t := *r.LastMessageAt
		doc.LastMessageAt = &t
	}

	switch r.Type {
	case TypeDm:
		if len(r.Participants) == 2 {
			key := DmPairKey(r.Participants[0].UserId, r.Participants[1].UserId)
			doc.DmKey = &key
		}
	case TypePlaceInquiry:
		if r.Context != nil {
			key := InquiryPairKey(r.Context.ContextId, r.InquiryGuestId())
			doc.InquiryKey = &key
		}
	}

	if r.Context != nil {
		contextJSON, err := json.Marshal(r.Context)
		if err != nil {
			return nil, err
		}
		s := string(contextJSON)
		doc.Context = &s
	}
	return doc, nil
}

// fromRoomModel 持久化文档转聚合
func fromRoomModel(doc *model.ChatRoom) (*Room, error) {
	var participants []*Participant
	if err := json.Unmarshal([]byte(doc.Participants), &participants); err != nil {
		return nil, fmt.Errorf("room: participants 反序列化失败: %w", err)
	}

	r := &Room{
		Id:           doc.Id,
		Type:         doc.Type,
		Name:         doc.Name,
		OwnerId:      doc.OwnerId,
		Status:       doc.Status,
		Participants: participants,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
	if doc.LastMessageAt != nil {
		t := *doc.LastMessageAt
		r.LastMessageAt = &t
	}
	if doc.Context != nil {
		var pc PlaceContext
		if err := json.Unmarshal([]byte(*doc.Context), &pc); err != nil {
			return nil, fmt.Errorf("room: context 反序列化失败: %w", err)
		}
		r.Context = &pc
	}
	return r, nil
}

func fromRoomModels(docs []model.ChatRoom) ([]*Room, error) {
	rooms := make([]*Room, 0, len(docs))
	for i := range docs {
		r, err := fromRoomModel(&docs[i])
		if err != nil {
			// 单条脏数据跳过，不拖垮整页
			logger.Warn(context.Background(), "room: 文档解析失败，跳过",
				logger.Int64("room_id", docs[i].Id), logger.ErrorField("error", err))
			continue
		}
		rooms = append(rooms, r)
	}
	return rooms, nil
}
