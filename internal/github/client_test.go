package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestClient(t *testing.T) (*Client, *httptest.Server, func()) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	server := httptest.NewServer(nil)
	client := NewClient(
		"test-token",
		logger,
		WithBaseURL(server.URL),
		WithRetryConfig(3, time.Millisecond*10, time.Millisecond*100),
	)

	cleanup := func() {
		server.Close()
	}

	return client, server, cleanup
}

func TestClient_ListRepositories(t *testing.T) {
	client, server, cleanup := setupTestClient(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("successful request", func(t *testing.T) {
		server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "GET", r.Method)
			assert.Equal(t, "/users/test-owner/repos", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			assert.Equal(t, "updated", r.URL.Query().Get("sort"))
			assert.Equal(t, "10", r.URL.Query().Get("per_page"))

			w.Header().Set("X-RateLimit-Limit", "5000")
			w.Header().Set("X-RateLimit-Remaining", "4999")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`[
				{
					"name": "demo",
					"description": "A demo project",
					"language": "TypeScript",
					"html_url": "https://github.com/test-owner/demo"
				},
				{
					"name": "cli",
					"description": "",
					"language": "Go",
					"html_url": "https://github.com/test-owner/cli"
				}
			]`))
		})

		repos, err := client.ListRepositories(ctx, "test-owner")
		require.NoError(t, err)
		require.Len(t, repos, 2)
		assert.Equal(t, "demo", repos[0].Name)
		assert.Equal(t, "A demo project", repos[0].Description)
		assert.Equal(t, "https://github.com/test-owner/demo", repos[0].HTMLURL)
		assert.Equal(t, "cli", repos[1].Name)
	})

	t.Run("owner not found", func(t *testing.T) {
		server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := client.ListRepositories(ctx, "no-such-user")
		assert.Error(t, err)
		assert.True(t, IsNotFoundError(err))
		assert.IsType(t, &OwnerNotFoundError{}, err)
	})

	t.Run("authentication failure", func(t *testing.T) {
		server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`bad credentials`))
		})

		_, err := client.ListRepositories(ctx, "test-owner")
		assert.Error(t, err)
		assert.True(t, IsAuthenticationError(err))
	})

	t.Run("rate limit handling", func(t *testing.T) {
		server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Limit", "5000")
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", "1234567890")
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := client.ListRepositories(ctx, "test-owner")
		assert.Error(t, err)
		assert.True(t, IsRateLimitError(err))
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`[{"name": "demo", "html_url": "https://github.com/test-owner/demo"}]`))
		})

		repos, err := client.ListRepositories(ctx, "test-owner")
		require.NoError(t, err)
		assert.Len(t, repos, 1)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("validation error", func(t *testing.T) {
		_, err := client.ListRepositories(ctx, "")
		assert.Error(t, err)
		assert.IsType(t, &ValidationError{}, err)
	})
}

func TestClient_GetLanguages(t *testing.T) {
	client, server, cleanup := setupTestClient(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("successful request", func(t *testing.T) {
		server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/test-owner/demo/languages", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"TypeScript": 1000, "CSS": 200}`))
		})

		languages, err := client.GetLanguages(ctx, "test-owner", "demo")
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"TypeScript": 1000, "CSS": 200}, languages)
	})

	t.Run("404 means no detectable languages", func(t *testing.T) {
		server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		languages, err := client.GetLanguages(ctx, "test-owner", "demo")
		require.NoError(t, err)
		assert.Empty(t, languages)
	})

	t.Run("validation error", func(t *testing.T) {
		_, err := client.GetLanguages(ctx, "", "demo")
		assert.IsType(t, &ValidationError{}, err)

		_, err = client.GetLanguages(ctx, "test-owner", "")
		assert.IsType(t, &ValidationError{}, err)
	})
}

func TestClient_ConcurrentRequests(t *testing.T) {
	client, server, cleanup := setupTestClient(t)
	defer cleanup()

	server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Remaining", "4999")
		w.Header().Set("X-RateLimit-Reset", "1234567890")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"Go": 100}`))
	})

	// The pipeline shares one client across goroutines; rate limit header
	// bookkeeping must hold up under the race detector.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			languages, err := client.GetLanguages(context.Background(), "test-owner", "demo")
			assert.NoError(t, err)
			assert.Equal(t, int64(100), languages["Go"])
		}()
	}
	wg.Wait()
}

func TestClient_GetReadme(t *testing.T) {
	client, server, cleanup := setupTestClient(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("decodes base64 content", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte("# Demo\n\nA demo project."))
		// GitHub wraps encoded content with newlines
		wrapped := encoded[:10] + "\n" + encoded[10:] + "\n"

		server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/test-owner/demo/readme", r.URL.Path)

			body, err := json.Marshal(map[string]string{
				"content":  wrapped,
				"encoding": "base64",
			})
			require.NoError(t, err)

			w.WriteHeader(http.StatusOK)
			w.Write(body)
		})

		text, ok, err := client.GetReadme(ctx, "test-owner", "demo")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "# Demo\n\nA demo project.", text)
	})

	t.Run("missing README is absent, not an error", func(t *testing.T) {
		server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		text, ok, err := client.GetReadme(ctx, "test-owner", "demo")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, text)
	})

	t.Run("server error is surfaced", func(t *testing.T) {
		server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, _, err := client.GetReadme(ctx, "test-owner", "demo")
		assert.Error(t, err)
	})
}
