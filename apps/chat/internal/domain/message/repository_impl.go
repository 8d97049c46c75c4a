package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ChatDDing/model"
)

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository 创建基于 GORM 的消息仓储
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Save(ctx context.Context, m *Message) error {
	doc, err := toMessageModel(m)
	if err != nil {
		return fmt.Errorf("message: 序列化失败: %w", err)
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(doc).Error
	if err != nil {
		return fmt.Errorf("message: 保存失败: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, messageId int64) (*Message, error) {
	var doc model.Message
	err := r.db.WithContext(ctx).Where("id = ?", messageId).Take(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("message: 查询失败: %w", err)
	}
	return fromMessageModel(&doc)
}

func (r *gormRepository) FindByRoomBeforeCursor(ctx context.Context, roomId, cursor int64, limit int) ([]*Message, error) {
	query := r.db.WithContext(ctx).Where("room_id = ?", roomId)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	var docs []model.Message
	err := query.Order("id DESC").Limit(limit).Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("message: 查询失败: %w", err)
	}
	return fromMessageModels(docs)
}

func (r *gormRepository) FindByRoomSince(ctx context.Context, roomId int64, since time.Time) ([]*Message, error) {
	var docs []model.Message
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomId).
		Where("created_at >= ?", since).
		Order("id ASC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("message: 查询失败: %w", err)
	}
	return fromMessageModels(docs)
}

func (r *gormRepository) FindLatestVisibleByRoom(ctx context.Context, roomId, userId int64) (*Message, error) {
	var doc model.Message
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomId).
		Where("NOT JSON_CONTAINS(deleted_by, ?)", strconv.FormatInt(userId, 10)).
		Order("id DESC").
		Take(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("message: 查询失败: %w", err)
	}
	return fromMessageModel(&doc)
}

func (r *gormRepository) FindByRoomLatest(ctx context.Context, roomId int64, limit int) ([]*Message, error) {
	var docs []model.Message
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomId).
		Order("id DESC").
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("message: 查询失败: %w", err)
	}
	return fromMessageModels(docs)
}

func (r *gormRepository) CountUnread(ctx context.Context, roomId, userId int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("room_id = ?", roomId).
		Where("NOT JSON_CONTAINS_PATH(read_by, 'one', ?)", readByPath(userId)).
		Where("NOT JSON_CONTAINS(deleted_by, ?)", strconv.FormatInt(userId, 10)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("message: 统计失败: %w", err)
	}
	return count, nil
}

func (r *gormRepository) BulkMarkRead(ctx context.Context, roomId, userId int64, readAt time.Time) (int64, error) {
	// 已读过的行被 NOT JSON_CONTAINS_PATH 过滤，重复消费天然幂等
	result := r.db.WithContext(ctx).Exec(
		"UPDATE "+model.MessageTableName+
			" SET read_by = JSON_SET(read_by, ?, CAST(? AS JSON))"+
			" WHERE room_id = ? AND NOT JSON_CONTAINS_PATH(read_by, 'one', ?)",
		readByPath(userId), readAt.UnixMilli(), roomId, readByPath(userId),
	)
	if result.Error != nil {
		return 0, fmt.Errorf("message: 批量已读失败: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *gormRepository) DeleteByID(ctx context.Context, messageId int64) error {
	err := r.db.WithContext(ctx).
		Where("id = ?", messageId).
		Delete(&model.Message{}).Error
	if err != nil {
		return fmt.Errorf("message: 删除失败: %w", err)
	}
	return nil
}

// readByPath read_by JSON 对象里的成员路径，如 $."100"
func readByPath(userId int64) string {
	return fmt.Sprintf(`$."%d"`, userId)
}

// toMessageModel 聚合转持久化文档
func toMessageModel(m *Message) (*model.Message, error) {
	readBy := make(map[string]int64, len(m.ReadBy))
	for userId, readAt := range m.ReadBy {
		readBy[strconv.FormatInt(userId, 10)] = readAt.UnixMilli()
	}
	readByJSON, err := json.Marshal(readBy)
	if err != nil {
		return nil, err
	}

	deletedBy := make([]int64, 0, len(m.DeletedBy))
	for userId := range m.DeletedBy {
		deletedBy = append(deletedBy, userId)
	}
	sort.Slice(deletedBy, func(i, j int) bool { return deletedBy[i] < deletedBy[j] })
	deletedByJSON, err := json.Marshal(deletedBy)
	if err != nil {
		return nil, err
	}

	return &model.Message{
		Id:        m.Id,
		RoomId:    m.RoomId,
		SenderId:  m.SenderId,
		Content:   m.Content,
		ReadBy:    string(readByJSON),
		DeletedBy: string(deletedByJSON),
		CreatedAt: m.CreatedAt,
	}, nil
}

// fromMessageModel 持久化文档转聚合
func fromMessageModel(doc *model.Message) (*Message, error) {
	var rawReadBy map[string]int64
	if err := json.Unmarshal([]byte(doc.ReadBy), &rawReadBy); err != nil {
		return nil, fmt.Errorf("message: read_by 反序列化失败: %w", err)
	}
	readBy := make(map[int64]time.Time, len(rawReadBy))
	for key, millis := range rawReadBy {
		userId, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("message: read_by 键非法: %w", err)
		}
		readBy[userId] = time.UnixMilli(millis)
	}

	var rawDeletedBy []int64
	if err := json.Unmarshal([]byte(doc.DeletedBy), &rawDeletedBy); err != nil {
		return nil, fmt.Errorf("message: deleted_by 反序列化失败: %w", err)
	}
	deletedBy := make(map[int64]bool, len(rawDeletedBy))
	for _, userId := range rawDeletedBy {
		deletedBy[userId] = true
	}

	return &Message{
		Id:        doc.Id,
		RoomId:    doc.RoomId,
		SenderId:  doc.SenderId,
		Content:   doc.Content,
		ReadBy:    readBy,
		DeletedBy: deletedBy,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func fromMessageModels(docs []model.Message) ([]*Message, error) {
	messages := make([]*Message, 0, len(docs))
	for i := range docs {
		m, err := fromMessageModel(&docs[i])
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}
