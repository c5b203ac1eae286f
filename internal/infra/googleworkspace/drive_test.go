package googleworkspace

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsletter-press/internal/domain/entity"

	"google.golang.org/api/option"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const driveListFixture = `{
  "files": [
    {"id": "f1", "name": "AI Newsletter #12", "createdTime": "2024-01-08T09:00:00Z"},
    {"id": "f2", "name": "AI Newsletter #11", "createdTime": "2024-01-01T09:00:00Z"}
  ]
}`

func newDriveTestClient(t *testing.T, folderID string, handler http.HandlerFunc) *DriveClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewDriveClient(context.Background(), server.Client(), folderID,
		option.WithEndpoint(server.URL), option.WithoutAuthentication())
	require.NoError(t, err)
	return client
}

func TestDriveClient_ListNewsletters(t *testing.T) {
	var gotQuery, gotOrder string
	client := newDriveTestClient(t, "folder-123", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotOrder = r.URL.Query().Get("orderBy")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(driveListFixture))
	})

	files, err := client.ListNewsletters(context.Background(), "", 5)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "'folder-123' in parents and mimeType='text/html'", gotQuery)
	assert.Equal(t, "createdTime desc", gotOrder)
	assert.Equal(t, "AI Newsletter #12", files[0].Title)
	assert.Equal(t, "https://drive.google.com/file/d/f1/view", files[0].DriveLink)
}

func TestDriveClient_Upload(t *testing.T) {
	client := newDriveTestClient(t, "folder-123", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "new-file", "webViewLink": "https://drive.google.com/file/d/new-file/view"}`))
	})

	result, err := client.Upload(context.Background(), "", "ai_newsletter_12.html", "text/html", "<html></html>")
	require.NoError(t, err)

	assert.Equal(t, "new-file", result.FileID)
	assert.Equal(t, "https://drive.google.com/file/d/new-file/view", result.URL)
	assert.Equal(t, "ai_newsletter_12.html", result.Filename)
}

func TestDriveClient_MissingFolder(t *testing.T) {
	client := newDriveTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected when the folder is missing")
	})

	_, err := client.ListNewsletters(context.Background(), "", 5)
	require.Error(t, err)

	var se *entity.SourceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, entity.KindSourceAuth, se.Kind)
}

func TestEscapeDriveQuery(t *testing.T) {
	assert.Equal(t, `it\'s`, escapeDriveQuery("it's"))
	assert.Equal(t, "plain", escapeDriveQuery("plain"))
}
