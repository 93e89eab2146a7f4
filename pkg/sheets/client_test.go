package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDecodesPresentSections(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("t")
		_, _ = io.WriteString(w, `{"turmas":[{"Turma":"Ballet","Valor":"R$ 150,00"}],"frequencia":[]}`)
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	c.now = func() time.Time { return time.UnixMilli(1700000000123) }

	payload, err := c.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "1700000000123", query)
	assert.True(t, payload.Has("turmas"))
	assert.True(t, payload.Has("frequencia"))
	assert.Empty(t, payload["frequencia"])
	assert.False(t, payload.Has("base"))
	assert.Equal(t, "Ballet", payload["turmas"][0]["Turma"])
}

func TestFetchNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(time.Second).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 500")
}

func TestFetchRejectsBadEndpoint(t *testing.T) {
	_, err := NewClient(time.Second).Fetch(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestFetchSurfacesScriptError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"error":"planilha não encontrada"}`)
	}))
	defer srv.Close()

	_, err := NewClient(time.Second).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planilha")
}

func TestPostSendsActionEnvelope(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	status, err := NewClient(time.Second).Post(context.Background(), srv.URL, "save_experimental", map[string]string{"id": "x"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, "save_experimental", got["action"])
	assert.Equal(t, map[string]interface{}{"id": "x"}, got["data"])
}
