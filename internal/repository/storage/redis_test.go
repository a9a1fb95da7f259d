package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/rocketscienceinc/caro-backend/internal/repository/storage"
	"github.com/rocketscienceinc/caro-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Connects to a live redis", func(t *testing.T) {
		ctx, st := suite.New(t)

		redisStorage, err := storage.New(ctx, st.Storage.Options().Addr)
		require.NoError(t, err)

		assert.NoError(t, redisStorage.Connection.Ping(ctx).Err())
		assert.NoError(t, redisStorage.Close())
	})

	t.Run("Unreachable address is an error", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, err := storage.New(ctx, "127.0.0.1:1")

		assert.Error(t, err)
	})
}
