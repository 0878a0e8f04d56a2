package archive

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/bookkeeper-backend/internal/usecase/reconciliation"
)

var (
	_ reconciliation.Archive = (*Local)(nil)
	_ reconciliation.Archive = (*GCS)(nil)
)

func TestLocal_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocal(root)
	require.NoError(t, err)

	uri, err := store.Put(ctx, "acct/batch/march.csv", []byte("date,amount\n"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "file://"))
	assert.FileExists(t, filepath.Join(store.Root, "acct", "batch", "march.csv"))

	data, err := store.Get(ctx, uri)
	require.NoError(t, err)
	assert.Equal(t, "date,amount\n", string(data))

	require.NoError(t, store.Delete(ctx, uri))
	_, err = os.Stat(filepath.Join(store.Root, "acct", "batch", "march.csv"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, uri), "deleting twice is a no-op")
}

func TestLocal_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../outside.csv", "a/../../outside.csv"} {
		_, err := store.Put(ctx, key, []byte("x"))
		assert.Error(t, err, "key %q", key)
	}

	assert.Error(t, store.Delete(ctx, "file:///etc/passwd"))
	assert.Error(t, store.Delete(ctx, "gs://bucket/object"))
}

func TestNewLocal_RequiresRoot(t *testing.T) {
	_, err := NewLocal("")
	assert.Error(t, err)
}

func TestParseGCSURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://statements/acct/batch/march.csv", "statements", "acct/batch/march.csv", false},
		{"gs://statements/file.csv", "statements", "file.csv", false},
		{"gs://statements", "", "", true},
		{"gs:///file.csv", "", "", true},
		{"file:///tmp/file.csv", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := ParseGCSURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantObject, object)
		})
	}
}

func TestGCS_ObjectName(t *testing.T) {
	assert.Equal(t, "acct/b/f.csv", (&GCS{}).objectName("/acct/b/f.csv"))
	assert.Equal(t, "imports/acct/b/f.csv", (&GCS{prefix: "imports"}).objectName("acct/b/f.csv"))
	assert.Equal(t, "text/csv", contentType("MARCH.CSV"))
	assert.Equal(t, "application/octet-stream", contentType("march.pdf"))
}

func TestGCS_ClientOptions(t *testing.T) {
	assert.Empty(t, clientOptions(""))
	assert.Len(t, clientOptions("http://localhost:4443/storage/v1/"), 2)

	_, err := NewGCS(t.Context(), "", "", "")
	assert.Error(t, err, "bucket is required")
}
