package blob

import (
	"strings"
	"testing"
	"time"

	appcfg "github.com/ntkr/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	now := time.Now()

	key := ObjectKey("morning thoughts.webm", now)
	assert.True(t, strings.HasPrefix(key, "voice-notes/"))
	assert.True(t, strings.HasSuffix(key, "morning_thoughts.webm"))

	// path components and shell metacharacters get stripped
	key = ObjectKey("../../etc/passwd", now)
	assert.Equal(t, "passwd", key[strings.LastIndex(key, "-")+1:])

	key = ObjectKey("", now)
	assert.True(t, strings.HasSuffix(key, "-recording"))
}

func TestObjectKeyUnique(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		key := ObjectKey("clip.wav", now)
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}

func TestNewS3StoreValidation(t *testing.T) {
	_, err := NewS3Store(appcfg.S3Options{})
	assert.Error(t, err)

	_, err = NewS3Store(appcfg.S3Options{Bucket: "b", AccessKeyID: "k", SecretAccessKey: "s"})
	assert.Error(t, err, "neither region nor endpoint")

	store, err := NewS3Store(appcfg.S3Options{
		Bucket: "b", AccessKeyID: "k", SecretAccessKey: "s", Region: "eu-west-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", store.region)
}

func TestPublicURL(t *testing.T) {
	base := appcfg.S3Options{Bucket: "notes", AccessKeyID: "k", SecretAccessKey: "s"}

	aws := base
	aws.Region = "us-east-1"
	store, err := NewS3Store(aws)
	require.NoError(t, err)
	assert.Equal(t,
		"https://notes.s3.us-east-1.amazonaws.com/voice-notes/a.wav",
		store.publicURL("voice-notes/a.wav"))

	minio := base
	minio.Endpoint = "minio.local:9000"
	store, err = NewS3Store(minio)
	require.NoError(t, err)
	assert.Equal(t,
		"https://minio.local:9000/notes/voice-notes/a.wav",
		store.publicURL("voice-notes/a.wav"))

	custom := base
	custom.Region = "us-east-1"
	custom.CustomDomain = "https://cdn.example.com/"
	store, err = NewS3Store(custom)
	require.NoError(t, err)
	assert.Equal(t,
		"https://cdn.example.com/voice-notes/a.wav",
		store.publicURL("voice-notes/a.wav"))
}

func TestKeyFromURL(t *testing.T) {
	store, err := NewS3Store(appcfg.S3Options{
		Bucket: "notes", AccessKeyID: "k", SecretAccessKey: "s", Region: "us-east-1",
	})
	require.NoError(t, err)

	key := store.KeyFromURL("https://notes.s3.us-east-1.amazonaws.com/voice-notes/123-abc-a.wav")
	assert.Equal(t, "voice-notes/123-abc-a.wav", key)

	assert.Equal(t, "", store.KeyFromURL("://bad url"))

	pathStyle, err := NewS3Store(appcfg.S3Options{
		Bucket: "notes", AccessKeyID: "k", SecretAccessKey: "s", Endpoint: "https://minio.local:9000",
	})
	require.NoError(t, err)
	key = pathStyle.KeyFromURL("https://minio.local:9000/notes/voice-notes/a.wav")
	assert.Equal(t, "voice-notes/a.wav", key)
}

func TestFullKeyWithPrefix(t *testing.T) {
	store, err := NewS3Store(appcfg.S3Options{
		Bucket: "notes", AccessKeyID: "k", SecretAccessKey: "s",
		Region: "us-east-1", KeyPrefix: "journal/",
	})
	require.NoError(t, err)

	assert.Equal(t, "journal/voice-notes/a.wav", store.fullKey("voice-notes/a.wav"))
	assert.Equal(t, "journal/voice-notes/a.wav", store.fullKey("journal/voice-notes/a.wav"))
	assert.Equal(t, "", store.fullKey("///"))
}
