package usecase

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMember struct {
	id string
}

func (that *stubMember) ID() string { return that.id }

func (that *stubMember) Send([]byte) error { return nil }

func newMatchmaker(maxRooms int) *Matchmaker {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewMatchmaker(logger, nil, maxRooms)
}

func member(i int) entity.Member {
	return &stubMember{id: fmt.Sprintf("p%d", i)}
}

func TestMatchmaker_Accept(t *testing.T) {
	t.Run("Pairs the first two players", func(t *testing.T) {
		mm := newMatchmaker(0)

		first, slot0, err := mm.Accept(member(0))
		require.NoError(t, err)
		second, slot1, err := mm.Accept(member(1))
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 0, slot0)
		assert.Equal(t, 1, slot1)
		assert.Equal(t, entity.StatusPlaying, first.Status())
		assert.Equal(t, 1, first.ID)
	})

	t.Run("Third player gets a new room", func(t *testing.T) {
		// Given: one room with two players, playing
		mm := newMatchmaker(0)
		full, _, err := mm.Accept(member(0))
		require.NoError(t, err)
		_, _, err = mm.Accept(member(1))
		require.NoError(t, err)

		// When: a third player arrives
		room, slot, err := mm.Accept(member(2))

		// Then: a second room is created rather than the player being refused
		require.NoError(t, err)
		assert.NotSame(t, full, room)
		assert.Equal(t, 2, room.ID)
		assert.Equal(t, 0, slot)
		assert.Equal(t, entity.StatusWaiting, room.Status())
		assert.Equal(t, 2, mm.RoomCount())
	})

	t.Run("Freed seat is reused before a new room", func(t *testing.T) {
		mm := newMatchmaker(0)
		room, _, err := mm.Accept(member(0))
		require.NoError(t, err)
		_, _, err = mm.Accept(member(1))
		require.NoError(t, err)

		require.NoError(t, room.Leave(0))
		mm.Release(room)

		again, slot, err := mm.Accept(member(2))

		require.NoError(t, err)
		assert.Same(t, room, again)
		assert.Equal(t, 0, slot)
		assert.Equal(t, 1, mm.RoomCount())
	})

	t.Run("Room cap rejects when nothing is open", func(t *testing.T) {
		mm := newMatchmaker(1)
		_, _, err := mm.Accept(member(0))
		require.NoError(t, err)
		_, _, err = mm.Accept(member(1))
		require.NoError(t, err)

		room, _, err := mm.Accept(member(2))

		require.ErrorIs(t, err, apperror.ErrNoRoomAvailable)
		assert.Nil(t, room)
		assert.Equal(t, 1, mm.RoomCount())
	})

	t.Run("Room ids keep growing after removal", func(t *testing.T) {
		mm := newMatchmaker(0)
		room, _, err := mm.Accept(member(0))
		require.NoError(t, err)
		require.NoError(t, room.Leave(0))
		mm.Release(room)
		assert.Equal(t, 0, mm.RoomCount())

		next, _, err := mm.Accept(member(1))

		require.NoError(t, err)
		assert.Equal(t, 2, next.ID)
	})
}

func TestMatchmaker_Release(t *testing.T) {
	t.Run("Keeps rooms with players", func(t *testing.T) {
		mm := newMatchmaker(0)
		room, _, err := mm.Accept(member(0))
		require.NoError(t, err)

		mm.Release(room)

		assert.Equal(t, 1, mm.RoomCount())
	})

	t.Run("Accept reaps empty rooms it finds", func(t *testing.T) {
		// Given: a full room and an emptied second room that was never released
		mm := newMatchmaker(0)
		_, _, err := mm.Accept(member(0))
		require.NoError(t, err)
		_, _, err = mm.Accept(member(1))
		require.NoError(t, err)
		stale, _, err := mm.Accept(member(2))
		require.NoError(t, err)
		require.NoError(t, stale.Leave(0))

		// When: another player arrives
		_, _, err = mm.Accept(member(3))
		require.NoError(t, err)

		// Then: the stale room is gone and the player sits in a fresh one
		ids := []int{}
		for _, snapshot := range mm.Rooms() {
			ids = append(ids, snapshot.ID)
		}
		assert.Equal(t, []int{1, 3}, ids)
	})
}

func TestMatchmaker_AcceptConcurrent(t *testing.T) {
	mm := newMatchmaker(0)

	const players = 200

	var wg sync.WaitGroup
	for i := range players {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := mm.Accept(member(i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snapshots := mm.Rooms()
	require.Len(t, snapshots, players/entity.SlotCount)
	for _, snapshot := range snapshots {
		assert.Equal(t, entity.SlotCount, snapshot.Players)
		assert.Equal(t, entity.StatusPlaying, snapshot.Status)
	}
}
