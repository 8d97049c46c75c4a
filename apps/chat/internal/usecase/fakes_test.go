package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"ChatDDing/apps/chat/internal/domain/message"
	"ChatDDing/apps/chat/internal/domain/room"
	"ChatDDing/apps/chat/internal/event"
)

// fakeRoomRepo 函数字段式房间仓储桩，未设置的方法 panic 以暴露意外调用。
type fakeRoomRepo struct {
	saveFn               func(ctx context.Context, r *room.Room) error
	findByIDFn           func(ctx context.Context, roomId int64) (*room.Room, error)
	findDmByPairFn       func(ctx context.Context, userA, userB int64) (*room.Room, error)
	findPlaceInquiryFn   func(ctx context.Context, contextId, guestId int64) (*room.Room, error)
	findActiveFn         func(ctx context.Context, userId int64) ([]*room.Room, error)
	findInquiriesHostFn  func(ctx context.Context, hostId, contextId int64) ([]*room.Room, error)
	findPendingSupportFn func(ctx context.Context, cursor int64, limit int) ([]*room.Room, error)
	countPendingFn       func(ctx context.Context) (int64, error)
}

func (f *fakeRoomRepo) Save(ctx context.Context, r *room.Room) error { return f.saveFn(ctx, r) }
func (f *fakeRoomRepo) FindByID(ctx context.Context, roomId int64) (*room.Room, error) {
	return f.findByIDFn(ctx, roomId)
}
func (f *fakeRoomRepo) FindDmByPair(ctx context.Context, userA, userB int64) (*room.Room, error) {
	return f.findDmByPairFn(ctx, userA, userB)
}
func (f *fakeRoomRepo) FindPlaceInquiry(ctx context.Context, contextId, guestId int64) (*room.Room, error) {
	return f.findPlaceInquiryFn(ctx, contextId, guestId)
}
func (f *fakeRoomRepo) FindActiveByParticipant(ctx context.Context, userId int64) ([]*room.Room, error) {
	return f.findActiveFn(ctx, userId)
}
func (f *fakeRoomRepo) FindPlaceInquiriesByHost(ctx context.Context, hostId, contextId int64) ([]*room.Room, error) {
	return f.findInquiriesHostFn(ctx, hostId, contextId)
}
func (f *fakeRoomRepo) FindPendingSupport(ctx context.Context, cursor int64, limit int) ([]*room.Room, error) {
	return f.findPendingSupportFn(ctx, cursor, limit)
}
func (f *fakeRoomRepo) CountPendingSupport(ctx context.Context) (int64, error) {
	return f.countPendingFn(ctx)
}

// fakeMessageRepo 函数字段式消息仓储桩
type fakeMessageRepo struct {
	saveFn             func(ctx context.Context, m *message.Message) error
	findByIDFn         func(ctx context.Context, messageId int64) (*message.Message, error)
	findBeforeCursorFn func(ctx context.Context, roomId, cursor int64, limit int) ([]*message.Message, error)
	findSinceFn        func(ctx context.Context, roomId int64, since time.Time) ([]*message.Message, error)
	findLatestFn       func(ctx context.Context, roomId, userId int64) (*message.Message, error)
	findRoomLatestFn   func(ctx context.Context, roomId int64, limit int) ([]*message.Message, error)
	countUnreadFn      func(ctx context.Context, roomId, userId int64) (int64, error)
	bulkMarkReadFn     func(ctx context.Context, roomId, userId int64, readAt time.Time) (int64, error)
	deleteByIDFn       func(ctx context.Context, messageId int64) error
}

func (f *fakeMessageRepo) Save(ctx context.Context, m *message.Message) error {
	return f.saveFn(ctx, m)
}
func (f *fakeMessageRepo) FindByID(ctx context.Context, messageId int64) (*message.Message, error) {
	return f.findByIDFn(ctx, messageId)
}
func (f *fakeMessageRepo) FindByRoomBeforeCursor(ctx context.Context, roomId, cursor int64, limit int) ([]*message.Message, error) {
	return f.findBeforeCursorFn(ctx, roomId, cursor, limit)
}
func (f *fakeMessageRepo) FindByRoomSince(ctx context.Context, roomId int64, since time.Time) ([]*message.Message, error) {
	return f.findSinceFn(ctx, roomId, since)
}
func (f *fakeMessageRepo) FindLatestVisibleByRoom(ctx context.Context, roomId, userId int64) (*message.Message, error) {
	return f.findLatestFn(ctx, roomId, userId)
}
func (f *fakeMessageRepo) FindByRoomLatest(ctx context.Context, roomId int64, limit int) ([]*message.Message, error) {
	return f.findRoomLatestFn(ctx, roomId, limit)
}
func (f *fakeMessageRepo) CountUnread(ctx context.Context, roomId, userId int64) (int64, error) {
	return f.countUnreadFn(ctx, roomId, userId)
}
func (f *fakeMessageRepo) BulkMarkRead(ctx context.Context, roomId, userId int64, readAt time.Time) (int64, error) {
	return f.bulkMarkReadFn(ctx, roomId, userId, readAt)
}
func (f *fakeMessageRepo) DeleteByID(ctx context.Context, messageId int64) error {
	return f.deleteByIDFn(ctx, messageId)
}

// fakeUnreadCache 内存未读缓存，记录各操作调用。
type fakeUnreadCache struct {
	store      map[string]int64
	increments []string
	resets     []string
}

func newFakeUnreadCache() *fakeUnreadCache {
	return &fakeUnreadCache{store: map[string]int64{}}
}

func cacheKey(roomId, userId int64) string {
	return fmt.Sprintf("%d/%d", roomId, userId)
}

func (f *fakeUnreadCache) Get(ctx context.Context, roomId, userId int64) (int64, bool) {
	count, ok := f.store[cacheKey(roomId, userId)]
	return count, ok
}
func (f *fakeUnreadCache) Set(ctx context.Context, roomId, userId, count int64) {
	f.store[cacheKey(roomId, userId)] = count
}
func (f *fakeUnreadCache) Increment(ctx context.Context, roomId, userId int64) {
	key := cacheKey(roomId, userId)
	f.store[key]++
	f.increments = append(f.increments, key)
}
func (f *fakeUnreadCache) Reset(ctx context.Context, roomId, userId int64) {
	key := cacheKey(roomId, userId)
	f.store[key] = 0
	f.resets = append(f.resets, key)
}
func (f *fakeUnreadCache) BatchGet(ctx context.Context, roomIds []int64, userId int64) map[int64]int64 {
	hits := map[int64]int64{}
	for _, roomId := range roomIds {
		if count, ok := f.store[cacheKey(roomId, userId)]; ok {
			hits[roomId] = count
		}
	}
	return hits
}

// fakePublisher 记录发布事件
type fakePublisher struct {
	events []event.Event
}

func (f *fakePublisher) Publish(ctx context.Context, evt event.Event) {
	f.events = append(f.events, evt)
}

func (f *fakePublisher) eventTypes() []string {
	types := make([]string, 0, len(f.events))
	for _, evt := range f.events {
		types = append(types, evt.Type)
	}
	return types
}

// fakeIdGen 自增 ID 生成器
type fakeIdGen struct {
	next atomic.Int64
}

func newFakeIdGen(start int64) *fakeIdGen {
	gen := &fakeIdGen{}
	gen.next.Store(start - 1)
	return gen
}

func (f *fakeIdGen) NextID() int64 {
	return f.next.Add(1)
}
