package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDm(t *testing.T) {
	now := time.Now()

	t.Run("正常创建", func(t *testing.T) {
		r, err := NewDm(1, 100, 200, now)
		require.NoError(t, err)
		assert.Equal(t, TypeDm, r.Type)
		assert.Equal(t, StatusActive, r.Status)
		assert.Len(t, r.Participants, 2)
		assert.True(t, r.IsParticipant(100))
		assert.True(t, r.IsParticipant(200))
		// 发起方即 owner，last_message_at 初始为创建时间（无消息的房间也能按时间排序）
		assert.Equal(t, int64(100), r.OwnerId)
		require.NotNil(t, r.LastMessageAt)
		assert.True(t, r.LastMessageAt.Equal(now))
	})

	t.Run("不能和自己私聊", func(t *testing.T) {
		_, err := NewDm(1, 100, 100, now)
		assert.ErrorIs(t, err, ErrCannotChatSelf)
	})
}

func TestNewGroup(t *testing.T) {
	now := time.Now()

	t.Run("owner自动入群且成员去重", func(t *testing.T) {
		r, err := NewGroup(1, 100, "周末羽毛球", []int64{200, 100, 200, 300}, now)
		require.NoError(t, err)
		assert.Len(t, r.Participants, 3)
		assert.Equal(t, int64(100), r.OwnerId)
		assert.Equal(t, "周末羽毛球", r.Name)
	})

	t.Run("群名为空", func(t *testing.T) {
		_, err := NewGroup(1, 100, "   ", []int64{200}, now)
		assert.ErrorIs(t, err, ErrInvalidName)
	})

	t.Run("群名超长", func(t *testing.T) {
		long := make([]rune, MaxNameLength+1)
		for i := range long {
			long[i] = '名'
		}
		_, err := NewGroup(1, 100, string(long), []int64{200}, now)
		assert.ErrorIs(t, err, ErrInvalidName)
	})

	t.Run("超出人数上限", func(t *testing.T) {
		members := make([]int64, MaxParticipantsGroup) // owner + 100 人
		for i := range members {
			members[i] = int64(1000 + i)
		}
		_, err := NewGroup(1, 100, "大群", members, now)
		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})
}

func TestNewPlaceInquiry(t *testing.T) {
	now := time.Now()

	pc := PlaceContext{ContextType: "PLACE", ContextId: 7, ContextName: "江南体育馆"}

	t.Run("正常创建", func(t *testing.T) {
		r, err := NewPlaceInquiry(1, 200, 100, pc, now)
		require.NoError(t, err)
		assert.Equal(t, TypePlaceInquiry, r.Type)
		assert.True(t, r.IsParticipant(100))
		assert.True(t, r.IsParticipant(200))
		assert.Equal(t, int64(100), r.OwnerId)
		assert.Equal(t, int64(200), r.InquiryGuestId())
		require.NotNil(t, r.Context)
		assert.Equal(t, int64(7), r.Context.ContextId)
	})

	t.Run("上下文ID非法", func(t *testing.T) {
		_, err := NewPlaceInquiry(1, 200, 100, PlaceContext{ContextType: "PLACE"}, now)
		assert.ErrorIs(t, err, ErrInvalidContext)
	})

	t.Run("房东咨询自己的场地", func(t *testing.T) {
		_, err := NewPlaceInquiry(1, 100, 100, pc, now)
		assert.ErrorIs(t, err, ErrInvalidContext)
	})
}

func TestNewSupport(t *testing.T) {
	now := time.Now()
	r := NewSupport(1, 100, now)

	assert.Equal(t, TypeSupport, r.Type)
	assert.Equal(t, StatusActive, r.Status)
	assert.Equal(t, int64(100), r.OwnerId)
	require.Len(t, r.Participants, 1)
	assert.True(t, r.IsParticipant(100))
}

func TestAssignAgent(t *testing.T) {
	now := time.Now()

	t.Run("正常指派", func(t *testing.T) {
		r := NewSupport(1, 100, now)
		err := r.AssignAgent(900, now)
		require.NoError(t, err)
		assert.Len(t, r.Participants, 2)
		assert.True(t, r.IsParticipant(900))
	})

	t.Run("重复指派", func(t *testing.T) {
		r := NewSupport(1, 100, now)
		require.NoError(t, r.AssignAgent(900, now))
		err := r.AssignAgent(901, now)
		assert.ErrorIs(t, err, ErrAgentAlreadyAssigned)
	})

	t.Run("非客服房间", func(t *testing.T) {
		r, err := NewDm(1, 100, 200, now)
		require.NoError(t, err)
		assert.ErrorIs(t, r.AssignAgent(900, now), ErrNotSupportRoom)
	})

	t.Run("房间已关闭", func(t *testing.T) {
		r := NewSupport(1, 100, now)
		require.NoError(t, r.Close(now))
		assert.ErrorIs(t, r.AssignAgent(900, now), ErrRoomClosed)
	})
}

func TestClose(t *testing.T) {
	now := time.Now()
	r := NewSupport(1, 100, now)

	require.NoError(t, r.Close(now))
	assert.Equal(t, StatusClosed, r.Status)
	assert.ErrorIs(t, r.Close(now), ErrRoomClosed)
}

func TestChangeName(t *testing.T) {
	now := time.Now()

	t.Run("仅群聊可改名", func(t *testing.T) {
		r, err := NewDm(1, 100, 200, now)
		require.NoError(t, err)
		assert.ErrorIs(t, r.ChangeName("新名字", now), ErrNotGroupRoom)
	})

	t.Run("正常改名并去首尾空白", func(t *testing.T) {
		r, err := NewGroup(1, 100, "旧名", []int64{200}, now)
		require.NoError(t, err)
		require.NoError(t, r.ChangeName("  新名  ", now))
		assert.Equal(t, "新名", r.Name)
	})
}

func TestParticipantLastReadAt(t *testing.T) {
	now := time.Now()
	p := NewParticipant(100, now)
	assert.True(t, p.NotificationEnabled)
	assert.Nil(t, p.LastReadAt)

	p.UpdateLastReadAt(now)
	require.NotNil(t, p.LastReadAt)
	assert.Equal(t, now, *p.LastReadAt)

	// 旧时间不回退
	p.UpdateLastReadAt(now.Add(-time.Hour))
	assert.Equal(t, now, *p.LastReadAt)

	later := now.Add(time.Minute)
	p.UpdateLastReadAt(later)
	assert.Equal(t, later, *p.LastReadAt)
}

func TestDmPairKey(t *testing.T) {
	// 参与者顺序不影响键值
	assert.Equal(t, DmPairKey(200, 100), DmPairKey(100, 200))
	assert.Equal(t, "dm:100:200", DmPairKey(200, 100))
}

func TestUpdateLastMessageAt(t *testing.T) {
	now := time.Now()
	r := NewSupport(1, 100, now)

	r.UpdateLastMessageAt(nil)
	assert.Nil(t, r.LastMessageAt)

	r.UpdateLastMessageAt(&now)
	require.NotNil(t, r.LastMessageAt)
	assert.Equal(t, now, *r.LastMessageAt)
}
