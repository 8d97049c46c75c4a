package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChatDDing/apps/chat/internal/domain/message"
	"ChatDDing/apps/chat/internal/domain/room"
	"ChatDDing/apps/chat/internal/event"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newMessageUsecaseForTest(roomRepo *fakeRoomRepo, messageRepo *fakeMessageRepo, unreadCache *fakeUnreadCache, publisher *fakePublisher) *MessageUsecase {
	u := NewMessageUsecase(roomRepo, messageRepo, unreadCache, publisher, newFakeIdGen(5000))
	u.now = func() time.Time { return testNow }
	return u
}

func newGroupRoom(t *testing.T) *room.Room {
	t.Helper()
	r, err := room.NewGroup(10, 100, "测试群", []int64{200, 300}, testNow.Add(-time.Hour))
	require.NoError(t, err)
	return r
}

func TestSend(t *testing.T) {
	ctx := context.Background()

	t.Run("正常发送", func(t *testing.T) {
		r := newGroupRoom(t)
		var savedMsg *message.Message
		var savedRoom *room.Room
		roomRepo := &fakeRoomRepo{
			findByIDFn: func(ctx context.Context, roomId int64) (*room.Room, error) { return r, nil },
			saveFn:     func(ctx context.Context, rm *room.Room) error { savedRoom = rm; return nil },
		}
		messageRepo := &fakeMessageRepo{
			saveFn: func(ctx context.Context, m *message.Message) error { savedMsg = m; return nil },
		}
		unreadCache := newFakeUnreadCache()
		publisher := &fakePublisher{}
		u := newMessageUsecaseForTest(roomRepo, messageRepo, unreadCache, publisher)

		msg, err := u.Send(ctx, 10, 100, "大家好")
		require.NoError(t, err)
		assert.Equal(t, "大家好", msg.Content)
		assert.True(t, msg.IsReadBy(100))
		require.NotNil(t, savedMsg)

		// last_message_at 推进
		require.NotNil(t, savedRoom)
		require.NotNil(t, savedRoom.LastMessageAt)
		assert.Equal(t, testNow, *savedRoom.LastMessageAt)

		// 其他两名成员未读 +1，发送者不加
		for _, otherId := range []int64{200, 300} {
			count, hit := unreadCache.Get(ctx, 10, otherId)
			assert.True(t, hit)
			assert.Equal(t, int64(1), count)
		}
		_, senderHit := unreadCache.Get(ctx, 10, 100)
		assert.False(t, senderHit)

		require.Len(t, publisher.events, 1)
		assert.Equal(t, event.TypeMessageSent, publisher.events[0].Type)
		assert.Equal(t, msg.Id, publisher.events[0].MessageId)
	})

	t.Run("非成员拒绝", func(t *testing.T) {
		r := newGroupRoom(t)
		roomRepo := &fakeRoomRepo{
			findByIDFn: func(ctx context.Context, roomId int64) (*room.Room, error) { return r, nil },
		}
		u := newMessageUsecaseForTest(roomRepo, &fakeMessageRepo{}, newFakeUnreadCache(), &fakePublisher{})
		_, err := u.Send(ctx, 10, 999, "你好")
		assert.ErrorIs(t, err, room.ErrNotParticipant)
	})

	t.Run("房间已关闭", func(t *testing.T) {
		r := newGroupRoom(t)
		require.NoError(t, r.Close(testNow))
		roomRepo := &fakeRoomRepo{
			findByIDFn: func(ctx context.Context, roomId int64) (*room.Room, error) { return r, nil },
		}
		u := newMessageUsecaseForTest(roomRepo, &fakeMessageRepo{}, newFakeUnreadCache(), &fakePublisher{})
		_, err := u.Send(ctx, 10, 100, "你好")
		assert.ErrorIs(t, err, room.ErrRoomClosed)
	})

	t.Run("内容为空", func(t *testing.T) {
		r := newGroupRoom(t)
		roomRepo := &fakeRoomRepo{
			findByIDFn: func(ctx context.Context, roomId int64) (*room.Room, error) { return r, nil },
		}
		u := newMessageUsecaseForTest(roomRepo, &fakeMessageRepo{}, newFakeUnreadCache(), &fakePublisher{})
		_, err := u.Send(ctx, 10, 100, "   ")
		assert.ErrorIs(t, err, message.ErrContentEmpty)
	})

	t.Run("房间不存在", func(t *testing.T) {
		roomRepo := &fakeRoomRepo{
			findByIDFn: func(ctx context.Context, roomId int64) (*room.Room, error) {
				return nil, room.ErrRoomNotFound
			},
		}
		u := newMessageUsecaseForTest(roomRepo, &fakeMessageRepo{}, newFakeUnreadCache(), &fakePublisher{})
		_, err := u.Send(ctx, 404, 100, "你好")
		assert.ErrorIs(t, err, room.ErrRoomNotFound)
	})
}

func TestGetMessages(t *testing.T) {
	ctx := context.Background()

	makeMessages := func(t *testing.T, count int, startId int64) []*message.Message {
		t.Helper()
		msgs := make([]*message.Message, 0, count)
		for i := 0; i < count; i++ {
			m, err := message.New(startId-int64(i), 10, 200, "消息", testNow.Add(-time.Duration(i)*time.Minute))
			require.NoError(t, err)
			msgs = append(msgs, m)
		}
		return msgs
	}

	t.Run("分页多取一条判断hasMore", func(t *testing.T) {
		r := newGroupRoom(t)
		var gotLimit int
		roomRepo := &fakeRoomRepo{
			findByIDFn: func(ctx context.Context, roomId int64) (*room.Room, error) { return r, nil },
		}
		messageRepo := &fakeMessageRepo{
			findBeforeCursorFn: func(ctx context.Context, roomId, cursor int64, limit int) ([]*message.Message, error) {
				gotLimit = limit
				return makeMessages(t, limit, 900), nil // 刚好 limit+1 条
			},
		}
		unreadCache := newFakeUnreadCache()
		publisher := &fakePublisher{}
		u := newMessageUsecaseForTest(roomRepo, messageRepo, unreadCache, publisher)

		page, err := u.GetMessages(ctx, 10, 100, 0, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, gotLimit)
		assert.True(t, page.HasMore)
		assert.Len(t, page.Messages, 2)
		assert.Equal(t, page.Messages[len(page.Messages)-1].Id, page.NextCursor)
	})

	t.Run("过滤请求者已删除的消息", func(t *testing.T) {
		r := newGroupRoom(t)
		msgs := makeMessages(t, 3, 900)
		msgs[1].DeleteFor(100)
		roomRepo := &fakeRoomRepo{
			findByIDFn: func(ctx context.Context, roomId int64) (*room.Room, error) { return r, nil },
		}
		messageRepo := &fakeMessageRepo{
			findBeforeCursorFn: func(ctx context.Context, roomId, cursor int64, limit int) ([]*message.Message, error) {
				return msgs, nil
			},
		}
		u := newMessageUsecaseForTest(roomRepo, messageRepo, newFakeUnreadCache(), &fakePublisher{})

		page, err := u.GetMessages(ctx, 10, 100, 0, 20)
		require.NoError(t, err)
		assert.False(t, page.HasMore)
		assert.Len(t, page.Messages, 2)
		for _, m := range page.Messages {
			assert.True(t, m.IsVisibleTo(100))
		}
	})

	t.Run("拉取触发自动已读", func(t *testing.T) {
		r := newGroupRoom(t)
		roomRepo := &fakeRoomRepo{
			findByIDFn: func(ctx context.Context, roomId int64) (*room.Room, error) { return r, nil },
		}
		messageRepo := &fakeMessageRepo{
			findBeforeCursorFn: func(ctx context.Context, roomId, cursor int64, limit int) ([]*message.Message, error) {
				return nil, nil
			},
		}
		unreadCache := newFakeUnreadCache()
		unreadCache.Set(ctx, 10, 100, 3)
		publisher := &fakePublisher{}
		u := newMessageUsecaseForTest(roomRepo, messageRepo, unreadCache, publisher)

		_, err := u.GetMessages(ctx, 10, 100, 0, 20)
		require.NoError(t, err)

		count, hit := unreadCache.Get(ctx, 10, 100)
		assert.True(t, hit)
		assert.Zero(t, count)
		require.Len(t, publisher.events, 1)
		assert.Equal(t, event.TypeMessageRead, publisher.events[0].Type)
		assert.Equal(t, int64(100), publisher.events[0].UserId)
	})

	t.Run("缓存已为0跳过已读事件", func(t *testing.T) {
		r := newGroupRoom(t)
		roomRepo := &fakeRoomRepo{
			findByIDFn: func(ctx context.Context, roomId int64) (*room.Room, error) { return r, nil },
		}
		messageRepo := &fakeMessageRepo{
			findBeforeCursorFn: func(ctx context.Context, roomId, cursor int64, limit int) ([]*message.Message, error) {
				return nil, nil
			},
		}
		unreadCache := newFakeUnreadCache()
		unreadCache.Set(ctx, 10, 100, 0)
		publisher := &fakePublisher{}
		u := newMessageUsecaseForTest(roomRepo, messageRepo, unreadCache, publisher)

		_, err := u.GetMessages(ctx, 10, 100, 0, 20)
		require.NoError(t, err)
		assert.Empty(t, publisher.events)
	})

	t.Run("非成员拒绝", func(t *testing.T) {
		r := newGroupRoom(t)
		roomRepo := &fakeRoomRepo{
			findByIDFn: func(ctx context.Context, roomId int64) (*room.Room, error) { return r, nil },
		}
		u := newMessageUsecaseForTest(roomRepo, &fakeMessageRepo{}, newFakeUnreadCache(), &fakePublisher{})
		_, err := u.GetMessages(ctx, 10, 999, 0, 20)
		assert.ErrorIs(t, err, room.ErrNotParticipant)
	})
}

func TestMarkAsRead(t *testing.T) {
	ctx := context.Background()

	t.Run("按锚点扫描并更新水位", func(t *testing.T) {
		r := newGroupRoom(t)
		anchorAt := testNow.Add(-10 * time.Minute)
		anchor, err := message.New(500, 10, 200, "锚点消息", anchorAt)
		require.NoError(t, err)

		unread1, err := message.New(501, 10, 200, "未读1", anchorAt.Add(time.Minute))
		require.NoError(t, err)
		unread2, err := message.New(502, 10, 300, "未读2", anchorAt.Add(2*time.Minute))
		require.NoError(t, err)
		alreadyRead, err := message.New(503, 10, 200, "已读", anchorAt.Add(3*time.Minute))
		require.NoError(t, err)
		alreadyRead.MarkAsReadAt(100, anchorAt.Add(4*time.Minute))

		var sinceArg time.Time
		var savedMsgs []*message.Message
		var savedRoom *room.Room
		roomRepo := &fakeRoomRepo{
			findByIDFn: func(ctx context.Context, roomId int64) (*room.Room, error) { return r, nil },
			saveFn:     func(ctx context.Context, rm *room.Room) error { savedRoom = rm; return nil },
		}
		messageRepo := &fakeMessageRepo{
			findByIDFn: func(ctx context.Context, messageId int64) (*message.Message, error) {
				require.Equal(t, int64(500), messageId)
				return anchor, nil
			},
			findSinceFn: func(ctx context.Context, roomId int64, since time.Time) ([]*message.Message, error) {
				sinceArg = since
				return []*message.Message{anchor, unread1, unread2, alreadyRead}, nil
			},
			saveFn: func(ctx context.Context, m *message.Message) error {
				savedMsgs = append(savedMsgs, m)
				return nil
			},
		}
		unreadCache := newFakeUnreadCache()
		unreadCache.Set(ctx, 10, 100, 9)
		u := newMessageUsecaseForTest(roomRepo, messageRepo, unreadCache, &fakePublisher{})

		marked, err := u.MarkAsRead(ctx, 10, 100, 500)
		require.NoError(t, err)
		// anchor + unread1 + unread2 为新标记，alreadyRead 跳过
		assert.Equal(t, int64(3), marked)
		assert.Len(t, savedMsgs, 3)
		// 锚点时间回退 1 秒
		assert.Equal(t, anchorAt.Add(-time.Second), sinceArg)

		// 成员已读水位推进
		require.NotNil(t, savedRoom)
		p := r.FindParticipant(100)
		require.NotNil(t, p.LastReadAt)
		assert.Equal(t, testNow, *p.LastReadAt)

		// 缓存归零
		count, hit := unreadCache.Get(ctx, 10, 100)
		assert.True(t, hit)
		assert.Zero(t, count)
	})

	t.Run("无锚点兜底扫描最新消息", func(t *testing.T) {
		r := newGroupRoom(t)
		var gotLimit int
		roomRepo := &fakeRoomRepo{
			findByIDFn: func(ctx context.Context, roomId int64) (*room.Room, error) { return r, nil },
			saveFn:     func(ctx context.Context, rm *room.Room) error { return nil },
		}
		messageRepo := &fakeMessageRepo{
			findRoomLatestFn: func(ctx context.Context, roomId int64, limit int) ([]*message.Message, error) {
				gotLimit = limit
				return nil, nil
			},
		}
		u := newMessageUsecaseForTest(roomRepo, messageRepo, newFakeUnreadCache(), &fakePublisher{})

		marked, err := u.MarkAsRead(ctx, 10, 100, 0)
		require.NoError(t, err)
		assert.Zero(t, marked)
		assert.Equal(t, markReadFallbackLimit, gotLimit)
	})

	t.Run("锚点丢失同样走兜底", func(t *testing.T) {
		r := newGroupRoom(t)
		fallbackCalled := false
		roomRepo := &fakeRoomRepo{
			findByIDFn: func(ctx context.Context, roomId int64) (*room.Room, error) { return r, nil },
			saveFn:     func(ctx context.Context, rm *room.Room) error { return nil },
		}
		messageRepo := &fakeMessageRepo{
			findByIDFn: func(ctx context.Context, messageId int64) (*message.Message, error) {
				return nil, message.ErrMessageNotFound
			},
			findRoomLatestFn: func(ctx context.Context, roomId int64, limit int) ([]*message.Message, error) {
				fallbackCalled = true
				return nil, nil
			},
		}
		u := newMessageUsecaseForTest(roomRepo, messageRepo, newFakeUnreadCache(), &fakePublisher{})

		_, err := u.MarkAsRead(ctx, 10, 100, 777)
		require.NoError(t, err)
		assert.True(t, fallbackCalled)
	})

	t.Run("非成员拒绝", func(t *testing.T) {
		r := newGroupRoom(t)
		roomRepo := &fakeRoomRepo{
			findByIDFn: func(ctx context.Context, roomId int64) (*room.Room, error) { return r, nil },
		}
		u := newMessageUsecaseForTest(roomRepo, &fakeMessageRepo{}, newFakeUnreadCache(), &fakePublisher{})
		_, err := u.MarkAsRead(ctx, 10, 999, 0)
		assert.ErrorIs(t, err, room.ErrNotParticipant)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("部分删除走软删除", func(t *testing.T) {
		r := newGroupRoom(t) // 3 名成员
		msg, err := message.New(500, 10, 100, "要删的消息", testNow)
		require.NoError(t, err)

		var savedMsg *message.Message
		roomRepo := &fakeRoomRepo{
			findByIDFn: func(ctx context.Context, roomId int64) (*room.Room, error) { return r, nil },
		}
		messageRepo := &fakeMessageRepo{
			findByIDFn: func(ctx context.Context, messageId int64) (*message.Message, error) { return msg, nil },
			saveFn:     func(ctx context.Context, m *message.Message) error { savedMsg = m; return nil },
			deleteByIDFn: func(ctx context.Context, messageId int64) error {
				t.Fatal("不应物理删除")
				return nil
			},
		}
		publisher := &fakePublisher{}
		u := newMessageUsecaseForTest(roomRepo, messageRepo, newFakeUnreadCache(), publisher)

		require.NoError(t, u.Delete(ctx, 500, 100))
		require.NotNil(t, savedMsg)
		assert.False(t, savedMsg.IsVisibleTo(100))
		require.Len(t, publisher.events, 1)
		assert.Equal(t, event.TypeMessageDeleted, publisher.events[0].Type)
		assert.False(t, publisher.events[0].HardDeleted)
	})

	t.Run("全员删完物理删除", func(t *testing.T) {
		now := testNow
		dm, err := room.NewDm(10, 100, 200, now)
		require.NoError(t, err)
		msg, err := message.New(500, 10, 100, "消息", now)
		require.NoError(t, err)
		msg.DeleteFor(200) // 对方已删

		hardDeleted := false
		roomRepo := &fakeRoomRepo{
			findByIDFn: func(ctx context.Context, roomId int64) (*room.Room, error) { return dm, nil },
		}
		messageRepo := &fakeMessageRepo{
			findByIDFn: func(ctx context.Context, messageId int64) (*message.Message, error) { return msg, nil },
			saveFn: func(ctx context.Context, m *message.Message) error {
				t.Fatal("不应软删除落库")
				return nil
			},
			deleteByIDFn: func(ctx context.Context, messageId int64) error {
				hardDeleted = true
				return nil
			},
		}
		publisher := &fakePublisher{}
		u := newMessageUsecaseForTest(roomRepo, messageRepo, newFakeUnreadCache(), publisher)

		require.NoError(t, u.Delete(ctx, 500, 100))
		assert.True(t, hardDeleted)
		require.Len(t, publisher.events, 1)
		assert.True(t, publisher.events[0].HardDeleted)
	})

	t.Run("非成员拒绝", func(t *testing.T) {
		r := newGroupRoom(t)
		msg, err := message.New(500, 10, 100, "消息", testNow)
		require.NoError(t, err)
		roomRepo := &fakeRoomRepo{
			findByIDFn: func(ctx context.Context, roomId int64) (*room.Room, error) { return r, nil },
		}
		messageRepo := &fakeMessageRepo{
			findByIDFn: func(ctx context.Context, messageId int64) (*message.Message, error) { return msg, nil },
		}
		u := newMessageUsecaseForTest(roomRepo, messageRepo, newFakeUnreadCache(), &fakePublisher{})
		assert.ErrorIs(t, u.Delete(ctx, 500, 999), room.ErrNotParticipant)
	})

	t.Run("消息不存在", func(t *testing.T) {
		messageRepo := &fakeMessageRepo{
			findByIDFn: func(ctx context.Context, messageId int64) (*message.Message, error) {
				return nil, message.ErrMessageNotFound
			},
		}
		u := newMessageUsecaseForTest(&fakeRoomRepo{}, messageRepo, newFakeUnreadCache(), &fakePublisher{})
		assert.ErrorIs(t, u.Delete(ctx, 404, 100), message.ErrMessageNotFound)
	})
}
