package room

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// 房间类型
const (
	TypeDm           = "DM"
	TypeGroup        = "GROUP"
	TypePlaceInquiry = "PLACE_INQUIRY"
	TypeSupport      = "SUPPORT"
)

// 房间状态
const (
	StatusActive = "ACTIVE"
	StatusClosed = "CLOSED"
)

// 各类型人数上限
const (
	MaxParticipantsDm      = 2
	MaxParticipantsGroup   = 100
	MaxParticipantsInquiry = 2
	MaxParticipantsSupport = 2
)

// MaxNameLength 群名最大长度（按字符数）
const MaxNameLength = 100

// MaxParticipantsOf 返回类型对应的人数上限，未知类型返回 0。
func MaxParticipantsOf(roomType string) int {
	switch roomType {
	case TypeDm:
		return MaxParticipantsDm
	case TypeGroup:
		return MaxParticipantsGroup
	case TypePlaceInquiry:
		return MaxParticipantsInquiry
	case TypeSupport:
		return MaxParticipantsSupport
	default:
		return 0
	}
}

// Participant 房间成员值对象
type Participant struct {
	UserId              int64      `json:"user_id"`
	NotificationEnabled bool       `json:"notification_enabled"`
	LastReadAt          *time.Time `json:"last_read_at,omitempty"`
	JoinedAt            time.Time  `json:"joined_at"`
}

// NewParticipant 创建成员，通知默认开启。
func NewParticipant(userId int64, now time.Time) *Participant {
	return &Participant{
		UserId:              userId,
		NotificationEnabled: true,
		JoinedAt:            now,
	}
}

// UpdateLastReadAt 单调推进已读水位，旧时间不回退。
func (p *Participant) UpdateLastReadAt(readAt time.Time) {
	if p.LastReadAt == nil || readAt.After(*p.LastReadAt) {
		t := readAt
		p.LastReadAt = &t
	}
}

// EnableNotification 开启通知
func (p *Participant) EnableNotification() { p.NotificationEnabled = true }

// DisableNotification 关闭通知
func (p *Participant) DisableNotification() { p.NotificationEnabled = false }

// PlaceContext 场地咨询房间绑定的外部实体上下文。
// 仅 PLACE_INQUIRY 类型持有，其余类型 Context 为 nil。
type PlaceContext struct {
	ContextType string            `json:"context_type"`
	ContextId   int64             `json:"context_id"`
	ContextName string            `json:"context_name,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Room 聊天室聚合根。
// 所有状态变更都经过聚合方法，不暴露可变内部切片。
type Room struct {
	Id            int64
	Type          string
	Name          string
	OwnerId       int64
	Status        string
	Participants  []*Participant
	Context       *PlaceContext
	LastMessageAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewDm 创建私聊房间，userA 为发起方（owner），userB 为对端。
func NewDm(id, userA, userB int64, now time.Time) (*Room, error) {
	if userA == userB {
		return nil, ErrCannotChatSelf
	}
	lastMessageAt := now
	return &Room{
		Id:      id,
		Type:    TypeDm,
		OwnerId: userA,
		Status:  StatusActive,
		Participants: []*Participant{
			NewParticipant(userA, now),
			NewParticipant(userB, now),
		},
		LastMessageAt: &lastMessageAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// NewGroup 创建群聊房间，owner 自动入群。
// members 中与 owner 重复的成员会被去重。
func NewGroup(id, ownerId int64, name string, memberIds []int64, now time.Time) (*Room, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > MaxNameLength {
		return nil, ErrInvalidName
	}

	seen := map[int64]bool{ownerId: true}
	participants := []*Participant{NewParticipant(ownerId, now)}
	for _, memberId := range memberIds {
		if seen[memberId] {
			continue
		}
		seen[memberId] = true
		participants = append(participants, NewParticipant(memberId, now))
	}
	if len(participants) > MaxParticipantsGroup {
		return nil, ErrCapacityExceeded
	}

	return &Room{
		Id:           id,
		Type:         TypeGroup,
		Name:         trimmed,
		OwnerId:      ownerId,
		Status:       StatusActive,
		Participants: participants,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewPlaceInquiry 创建场地咨询房间，成员为 guest 和 host。
// ownerId 固定为 host：咨询归属于被咨询方，供房东侧列表查询。
func NewPlaceInquiry(id, guestId, hostId int64, ctx PlaceContext, now time.Time) (*Room, error) {
	if guestId <= 0 || hostId <= 0 || guestId == hostId || ctx.ContextId <= 0 {
		return nil, ErrInvalidContext
	}
	c := ctx
	return &Room{
		Id:      id,
		Type:    TypePlaceInquiry,
		Name:    ctx.ContextName,
		OwnerId: hostId,
		Status:  StatusActive,
		Participants: []*Participant{
			NewParticipant(guestId, now),
			NewParticipant(hostId, now),
		},
		Context:   &c,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewSupport 创建客服房间，初始仅用户一名成员（owner），等待客服指派。
func NewSupport(id, userId int64, now time.Time) *Room {
	return &Room{
		Id:           id,
		Type:         TypeSupport,
		OwnerId:      userId,
		Status:       StatusActive,
		Participants: []*Participant{NewParticipant(userId, now)},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsActive 房间是否处于活跃状态
func (r *Room) IsActive() bool {
	return r.Status == StatusActive
}

// IsParticipant 判断用户是否为房间成员
func (r *Room) IsParticipant(userId int64) bool {
	return r.FindParticipant(userId) != nil
}

// FindParticipant 查找成员，不存在返回 nil。
func (r *Room) FindParticipant(userId int64) *Participant {
	for _, p := range r.Participants {
		if p.UserId == userId {
			return p
		}
	}
	return nil
}

// OtherParticipantIds 返回除 userId 外的成员 ID 列表
func (r *Room) OtherParticipantIds(userId int64) []int64 {
	others := make([]int64, 0, len(r.Participants))
	for _, p := range r.Participants {
		if p.UserId != userId {
			others = append(others, p.UserId)
		}
	}
	return others
}

// AssignAgent 指派客服入房。仅 SUPPORT 类型且尚无客服时允许。
func (r *Room) AssignAgent(agentId int64, now time.Time) error {
	if r.Type != TypeSupport {
		return ErrNotSupportRoom
	}
	if !r.IsActive() {
		return ErrRoomClosed
	}
	if len(r.Participants) >= MaxParticipantsSupport {
		return ErrAgentAlreadyAssigned
	}
	if r.IsParticipant(agentId) {
		return ErrAgentAlreadyAssigned
	}
	r.Participants = append(r.Participants, NewParticipant(agentId, now))
	r.UpdatedAt = now
	return nil
}

// Close 关闭房间，重复关闭返回 ErrRoomClosed。
func (r *Room) Close(now time.Time) error {
	if !r.IsActive() {
		return ErrRoomClosed
	}
	r.Status = StatusClosed
	r.UpdatedAt = now
	return nil
}

// ChangeName 修改群名，仅 GROUP 类型允许。
func (r *Room) ChangeName(name string, now time.Time) error {
	if r.Type != TypeGroup {
		return ErrNotGroupRoom
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > MaxNameLength {
		return ErrInvalidName
	}
	r.Name = trimmed
	r.UpdatedAt = now
	return nil
}

// UpdateLastMessageAt 推进最近消息时间，nil 入参忽略。
func (r *Room) UpdateLastMessageAt(at *time.Time) {
	if at == nil {
		return
	}
	t := *at
	r.LastMessageAt = &t
}

// DmPairKey 对 DM 参与者对生成稳定去重键："dm:<小ID>:<大ID>"。
func DmPairKey(userA, userB int64) string {
	lo, hi := userA, userB
	if lo > hi {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("dm:%d:%d", lo, hi)
}

// InquiryPairKey 对场地咨询 (contextId, guestId) 生成去重键。
func InquiryPairKey(contextId, guestId int64) string {
	return fmt.Sprintf("inq:%d:%d", contextId, guestId)
}

// InquiryGuestId 咨询房间的 guest 成员 ID（非 owner 的那名成员）。
// 非咨询房间返回 0。
func (r *Room) InquiryGuestId() int64 {
	if r.Type != TypePlaceInquiry {
		return 0
	}
	for _, p := range r.Participants {
		if p.UserId != r.OwnerId {
			return p.UserId
		}
	}
	return 0
}

// SortedParticipantIds 返回按升序排序的成员 ID 列表
func (r *Room) SortedParticipantIds() []int64 {
	ids := make([]int64, 0, len(r.Participants))
	for _, p := range r.Participants {
		ids = append(ids, p.UserId)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
