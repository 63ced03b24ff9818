package tokenstore_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"scale-sync/core/storage/mocks"
	"scale-sync/core/tokenstore"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestObjectStore(t *testing.T) {
	ctx := context.Background()

	t.Run("SaveRefreshToken", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("PutObject", mock.Anything, "scale-sync", "tokens/withings_refresh.json",
			mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

		store := tokenstore.NewObjectStore(client, "scale-sync", "tokens/")
		err := store.SaveWithingsRefreshToken(ctx, "rt-abc")

		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("LoadRefreshToken", func(t *testing.T) {
		client := new(mocks.Client)
		body := io.NopCloser(bytes.NewReader([]byte(`{"refresh_token":"rt-abc"}`)))
		client.On("GetObject", mock.Anything, "scale-sync", "tokens/withings_refresh.json",
			mock.Anything).Return(body, nil)

		store := tokenstore.NewObjectStore(client, "scale-sync", "tokens/")
		token, err := store.LoadWithingsRefreshToken(ctx)

		require.NoError(t, err)
		assert.Equal(t, "rt-abc", token)
	})

	t.Run("GarminSessionRoundTripKeys", func(t *testing.T) {
		client := new(mocks.Client)
		blob := []byte(`{"access_token":"at"}`)
		client.On("PutObject", mock.Anything, "scale-sync", "tokens/garmin_session.json",
			mock.Anything, int64(len(blob)), mock.Anything).Return(minio.UploadInfo{}, nil)
		client.On("GetObject", mock.Anything, "scale-sync", "tokens/garmin_session.json",
			mock.Anything).Return(io.NopCloser(bytes.NewReader(blob)), nil)

		store := tokenstore.NewObjectStore(client, "scale-sync", "tokens/")
		require.NoError(t, store.SaveGarminSession(ctx, blob))

		got, err := store.LoadGarminSession(ctx)
		require.NoError(t, err)
		assert.Equal(t, blob, got)
		client.AssertExpectations(t)
	})

	t.Run("EmptyObjectIsNotFound", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "scale-sync", "tokens/garmin_session.json",
			mock.Anything).Return(io.NopCloser(bytes.NewReader(nil)), nil)

		store := tokenstore.NewObjectStore(client, "scale-sync", "tokens/")
		_, err := store.LoadGarminSession(ctx)

		assert.ErrorIs(t, err, tokenstore.ErrNotFound)
	})
}
