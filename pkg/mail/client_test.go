package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMail(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, sendMailPath, r.URL.Path)
		assert.Equal(t, "app-token", r.Header.Get("VtexIdclientAutCookie"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/", WithToken("app-token"))
	require.NoError(t, err)

	err = client.SendMail(context.Background(), Message{
		TemplateName: "quote-created",
		JSONData:     map[string]any{"message": map[string]string{"to": "a@acme.com"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "quote-created", body["templateName"])
	jsonData := body["jsonData"].(map[string]any)
	assert.Equal(t, "a@acme.com", jsonData["message"].(map[string]any)["to"])
}

func TestSendMailFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "template missing", http.StatusBadRequest)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	err = client.SendMail(context.Background(), Message{TemplateName: "quote-updated"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template missing")
}

func TestSendMailRequiresTemplate(t *testing.T) {
	client, err := NewClient("http://mail.local")
	require.NoError(t, err)
	assert.Error(t, client.SendMail(context.Background(), Message{}))
}
