package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	domainErrors "github.com/Haleralex/quefilme/internal/domain/errors"
	"github.com/Haleralex/quefilme/internal/infrastructure/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body string, capture func(*http.Request, completionRequest)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req completionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if capture != nil {
			capture(r, req)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAssistant_Ask(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotAuth string
		var gotReq completionRequest
		server := newServer(t, http.StatusOK,
			`{"choices":[{"message":{"role":"assistant","content":"<｜begin▁of▁sentence｜>Tropa de Elite - tt0861739"}}]}`,
			func(r *http.Request, req completionRequest) {
				gotAuth = r.Header.Get("Authorization")
				gotReq = req
			})

		a := NewAssistant(httpclient.NewClient(httpclient.Config{}), Config{BaseURL: server.URL, APIKey: "ai-key"})

		reply, err := a.Ask(context.Background(), "sugira um filme")

		require.NoError(t, err)
		assert.Equal(t, "Tropa de Elite - tt0861739", reply)
		assert.Equal(t, "Bearer ai-key", gotAuth)
		assert.Equal(t, DefaultModel, gotReq.Model)
		require.Len(t, gotReq.Messages, 1)
		assert.Equal(t, "user", gotReq.Messages[0].Role)
		assert.Equal(t, "sugira um filme", gotReq.Messages[0].Content)
	})

	t.Run("CustomModel", func(t *testing.T) {
		var gotModel string
		server := newServer(t, http.StatusOK, `{"choices":[{"message":{"content":"x - tt1"}}]}`,
			func(r *http.Request, req completionRequest) { gotModel = req.Model })

		a := NewAssistant(httpclient.NewClient(httpclient.Config{}), Config{BaseURL: server.URL, Model: "openai/gpt-4o-mini"})

		_, err := a.Ask(context.Background(), "p")

		require.NoError(t, err)
		assert.Equal(t, "openai/gpt-4o-mini", gotModel)
	})

	t.Run("NoChoices", func(t *testing.T) {
		server := newServer(t, http.StatusOK, `{"choices":[]}`, nil)
		a := NewAssistant(httpclient.NewClient(httpclient.Config{}), Config{BaseURL: server.URL})

		_, err := a.Ask(context.Background(), "p")

		assert.True(t, domainErrors.IsUnexpected(err))
	})

	t.Run("RateLimited", func(t *testing.T) {
		server := newServer(t, http.StatusTooManyRequests, `{"error":"rate limited"}`, nil)
		a := NewAssistant(httpclient.NewClient(httpclient.Config{}), Config{BaseURL: server.URL})

		_, err := a.Ask(context.Background(), "p")

		assert.True(t, domainErrors.IsUnexpected(err))
	})
}
