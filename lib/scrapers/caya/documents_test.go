package caya

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"cayasync/lib/telemetry"

	"github.com/stretchr/testify/require"
)

type testOperation struct {
	OperationName string          `json:"operationName"`
	Variables     json.RawMessage `json:"variables"`
	Query         string          `json:"query"`
}

func decodeOperations(t testing.TB, r *http.Request) []testOperation {
	var ops []testOperation
	err := json.NewDecoder(r.Body).Decode(&ops)
	require.NoError(t, err)
	require.NotEmpty(t, ops)
	return ops
}

func newTestClient(t testing.TB, handler http.HandlerFunc) (*Client, AuthContext, func()) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/caya")

	srv := httptest.NewServer(handler)
	client, err := NewClient(ClientOptions{Endpoint: srv.URL})
	require.NoError(t, err)

	auth := AuthContext{
		Authorization: "Bearer test",
		CookieHeader:  "session=s1; ",
	}
	return client, auth, func() {
		srv.Close()
		cleanup()
	}
}

func TestGetFolders(t *testing.T) {
	client, auth, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ops := decodeOperations(t, r)
		require.Equal(t, "MeCustomer", ops[0].OperationName)
		require.Equal(t, "Bearer test", r.Header.Get("Authorization"))
		require.Equal(t, "session=s1; ", r.Header.Get("Cookie"))

		fmt.Fprint(w, `[{"data":{"meFolders":{"inbox":{"id":"F1"},"archive":{"id":"F2"},"trash":{"id":"F3"}}}}]`)
	})
	defer cleanup()

	folders, err := client.GetFolders(context.Background(), auth)
	require.NoError(t, err)
	require.Equal(t, "F1", folders.Inbox.Id)
	require.Equal(t, "F2", folders.Archive.Id)
	require.Equal(t, "F3", folders.Trash.Id)
}

func TestGetFoldersMissingInbox(t *testing.T) {
	client, auth, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"data":{"meFolders":{"archive":{"id":"F2"}}}}]`)
	})
	defer cleanup()

	_, err := client.GetFolders(context.Background(), auth)
	require.ErrorIs(t, err, ErrNoInboxFolder)
}

func TestListDocumentsPagination(t *testing.T) {
	pages := 0
	client, auth, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ops := decodeOperations(t, r)
		require.Equal(t, "DocumentsConnection", ops[0].OperationName)

		var vars documentsVariables
		err := json.Unmarshal(ops[0].Variables, &vars)
		require.NoError(t, err)
		require.Equal(t, "createdAt_DESC", vars.OrderBy)
		require.Equal(t, "F1", vars.Where.Folder.Id)
		require.Equal(t, []string{"DocumentDigital", "DocumentScan"}, vars.Where.TypeIn)
		require.False(t, vars.Where.Unread)

		pages++
		switch vars.After {
		case "":
			fmt.Fprint(w, `[{"data":{"connection":{
				"pageInfo":{"hasNextPage":true,"endCursor":"c1"},
				"edges":[
					{"node":{"id":"D1","filename":"a.pdf","file":"http://x/1","documentId":"doc1","createdAt":"2024-01-03T00:00:00Z"}},
					{"node":{"id":"D2","filename":"b.pdf","file":"http://x/2","documentId":"doc2","createdAt":"2024-01-02T00:00:00Z"}}
				]}}}]`)
		case "c1":
			fmt.Fprint(w, `[{"data":{"connection":{
				"pageInfo":{"hasNextPage":false,"endCursor":""},
				"edges":[
					{"node":{"id":"D3","documentId":"doc3","createdAt":"2024-01-01T00:00:00Z","metadata":{"senderName":"ACME","subject":"Invoice","tags":["billing"]}}}
				]}}}]`)
		default:
			t.Errorf("unexpected cursor: %q", vars.After)
		}
	})
	defer cleanup()

	docs, err := client.ListDocuments(context.Background(), auth, ListDocumentsRequest{
		FolderId: "F1",
		PageSize: 2,
	})
	require.NoError(t, err)
	require.Equal(t, 2, pages)
	require.Len(t, docs, 3)

	require.Equal(t, "D1", docs[0].Id)
	require.Equal(t, "D2", docs[1].Id)
	require.Equal(t, "D3", docs[2].Id)
	require.Equal(t, "", docs[2].File)
	require.Equal(t, "ACME", docs[2].Metadata.SenderName)
	require.Equal(t, []string{"billing"}, docs[2].Metadata.Tags)
}

func TestGraphqlErrorPayload(t *testing.T) {
	client, auth, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"errors":[{"message":"unauthorized"}]}]`)
	})
	defer cleanup()

	_, err := client.GetFolders(context.Background(), auth)
	require.ErrorContains(t, err, "unauthorized")
}

func TestGraphqlMalformedBody(t *testing.T) {
	client, auth, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>definitely not json</html>`)
	})
	defer cleanup()

	_, err := client.GetFolders(context.Background(), auth)
	require.ErrorContains(t, err, "decode MeCustomer response")
}
