package storage

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://project.supabase.co"

func newTestStorage(t *testing.T) *SupabaseStorage {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	return NewSupabaseStorage(testBaseURL, "service-key", "evidence")
}

func TestEnsureBucket(t *testing.T) {
	t.Run("existing bucket is left alone", func(t *testing.T) {
		s := newTestStorage(t)
		httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/storage/v1/bucket/evidence",
			httpmock.NewStringResponder(http.StatusOK, `{"name":"evidence","public":true}`))

		require.NoError(t, s.EnsureBucket(context.Background()))

		info := httpmock.GetCallCountInfo()
		assert.Equal(t, 0, info["POST "+testBaseURL+"/storage/v1/bucket"])
	})

	t.Run("missing bucket is created", func(t *testing.T) {
		s := newTestStorage(t)
		httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/storage/v1/bucket/evidence",
			httpmock.NewStringResponder(http.StatusNotFound, `{"error":"Bucket not found"}`))
		httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/storage/v1/bucket",
			httpmock.NewStringResponder(http.StatusOK, `{"name":"evidence"}`))

		require.NoError(t, s.EnsureBucket(context.Background()))

		info := httpmock.GetCallCountInfo()
		assert.Equal(t, 1, info["POST "+testBaseURL+"/storage/v1/bucket"])
	})
}

func TestPutObject(t *testing.T) {
	t.Run("returns the public URL on success", func(t *testing.T) {
		s := newTestStorage(t)
		httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/storage/v1/object/evidence/123-pothole.jpg",
			httpmock.NewStringResponder(http.StatusOK, `{"Key":"evidence/123-pothole.jpg"}`))

		url, err := s.PutObject(context.Background(), "123-pothole.jpg", []byte{0xFF, 0xD8}, "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, testBaseURL+"/storage/v1/object/public/evidence/123-pothole.jpg", url)
	})

	t.Run("surfaces upload failures", func(t *testing.T) {
		s := newTestStorage(t)
		httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/storage/v1/object/evidence/bad.jpg",
			httpmock.NewStringResponder(http.StatusForbidden, `{"error":"access denied"}`))

		_, err := s.PutObject(context.Background(), "bad.jpg", []byte{1}, "image/jpeg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 403")
	})
}
