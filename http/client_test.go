package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fkozlowski/webclip"
	webcliphttp "github.com/fkozlowski/webclip/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler nethttp.Handler, opts ...webcliphttp.Option) *webcliphttp.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]webcliphttp.Option{webcliphttp.WithRateLimit(0)}, opts...)
	return webcliphttp.NewClient(srv.URL, "test-key", opts...)
}

func TestClient_CheckCredentials(t *testing.T) {
	t.Parallel()

	t.Run("sends the API key header", func(t *testing.T) {
		t.Parallel()

		var gotKey string
		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			gotKey = r.Header.Get("apiKey")
			assert.Equal(t, "/api/v1/status", r.URL.Path)
		}))

		require.NoError(t, c.CheckCredentials(context.Background()))
		assert.Equal(t, "test-key", gotKey)
	})

	t.Run("401 means invalid API key", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.WriteHeader(nethttp.StatusUnauthorized)
		}))

		err := c.CheckCredentials(context.Background())
		assert.Equal(t, webclip.EINVALIDCREDENTIALS, webclip.ErrorCode(err))
		assert.Equal(t, "invalid API key", webclip.ErrorMessage(err))
	})

	t.Run("404 means wrong server URL", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.WriteHeader(nethttp.StatusNotFound)
		}))

		err := c.CheckCredentials(context.Background())
		assert.Equal(t, webclip.ENOTFOUND, webclip.ErrorCode(err))
		assert.Contains(t, webclip.ErrorMessage(err), "endpoint not found")
	})

	t.Run("5xx maps to server error", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.WriteHeader(nethttp.StatusBadGateway)
		}))

		err := c.CheckCredentials(context.Background())
		assert.Equal(t, webclip.EUNAVAILABLE, webclip.ErrorCode(err))
	})
}

func TestClient_ListDocuments(t *testing.T) {
	t.Parallel()

	t.Run("requests a fixed page size ordered by last modified", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			assert.Equal(t, "50", r.URL.Query().Get("pageSize"))
			assert.Equal(t, "2", r.URL.Query().Get("pageNumber"))
			assert.Equal(t, "lastModified desc", r.URL.Query().Get("orderBy"))
			fmt.Fprint(w, `{"totalHits": 151, "documents": [{"id": 1, "globalId": "SD1", "name": "Notes"}]}`)
		}))

		page, err := c.ListDocuments(context.Background(), 2)

		require.NoError(t, err)
		require.Len(t, page.Documents, 1)
		assert.Equal(t, webclip.DocumentSummary{ID: 1, GlobalID: "SD1", Name: "Notes"}, page.Documents[0])
		assert.True(t, page.HasMore) // (2+1)*50 = 150 < 151
	})

	t.Run("no more pages when the listing is exhausted", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			fmt.Fprint(w, `{"totalHits": 150, "documents": []}`)
		}))

		page, err := c.ListDocuments(context.Background(), 2)

		require.NoError(t, err)
		assert.False(t, page.HasMore)
	})

	t.Run("rejects negative pages", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			t.Error("no request expected")
		}))

		_, err := c.ListDocuments(context.Background(), -1)
		assert.Equal(t, webclip.EINVALID, webclip.ErrorCode(err))
	})
}

func TestClient_CreateDocument(t *testing.T) {
	t.Parallel()

	t.Run("posts one empty field and the clip tag", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			require.Equal(t, nethttp.MethodPost, r.Method)
			require.Equal(t, "/api/v1/documents", r.URL.Path)

			var payload struct {
				Name   string   `json:"name"`
				Tags   []string `json:"tags"`
				Fields []struct {
					Content string `json:"content"`
				} `json:"fields"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "Notes", payload.Name)
			assert.Equal(t, []string{"web-clip"}, payload.Tags)
			require.Len(t, payload.Fields, 1)
			assert.Empty(t, payload.Fields[0].Content)

			fmt.Fprint(w, `{"id": 42, "globalId": "SD42"}`)
		}))

		created, err := c.CreateDocument(context.Background(), "Notes")

		require.NoError(t, err)
		assert.Equal(t, int64(42), created.ID)
		assert.Equal(t, "SD42", created.GlobalID)
	})

	t.Run("prefers the JSON error message", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.WriteHeader(nethttp.StatusBadRequest)
			fmt.Fprint(w, `{"error": {"message": "title contains invalid characters"}}`)
		}))

		_, err := c.CreateDocument(context.Background(), "Notes")
		assert.Equal(t, "title contains invalid characters", webclip.ErrorMessage(err))
	})

	t.Run("falls back to a short raw body", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.WriteHeader(nethttp.StatusBadRequest)
			fmt.Fprint(w, "quota exceeded")
		}))

		_, err := c.CreateDocument(context.Background(), "Notes")
		assert.Equal(t, "quota exceeded", webclip.ErrorMessage(err))
	})

	t.Run("falls back to the status mapping for long bodies", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.WriteHeader(nethttp.StatusInternalServerError)
			fmt.Fprint(w, "<html>"+strings.Repeat("stack trace ", 50)+"</html>")
		}))

		_, err := c.CreateDocument(context.Background(), "Notes")
		assert.Equal(t, webclip.EUNAVAILABLE, webclip.ErrorCode(err))
		assert.Contains(t, webclip.ErrorMessage(err), "server error")
	})

	t.Run("rejects an empty title", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			t.Error("no request expected")
		}))

		_, err := c.CreateDocument(context.Background(), "  ")
		assert.Equal(t, webclip.EINVALID, webclip.ErrorCode(err))
	})
}

func TestClient_AppendToDocument(t *testing.T) {
	t.Parallel()

	t.Run("appends to the single field", func(t *testing.T) {
		t.Parallel()

		var putBody []byte
		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			switch r.Method {
			case nethttp.MethodGet:
				fmt.Fprint(w, `{"id": 42, "globalId": "SD42", "fields": [{"id": 7, "content": "<p>old</p>"}]}`)
			case nethttp.MethodPut:
				assert.Equal(t, "/api/v1/documents/42", r.URL.Path)
				putBody, _ = io.ReadAll(r.Body)
			}
		}))

		require.NoError(t, c.AppendToDocument(context.Background(), 42, "<p>new</p>"))

		var payload struct {
			Fields []webclip.Field `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(putBody, &payload))
		require.Len(t, payload.Fields, 1)
		assert.Equal(t, int64(7), payload.Fields[0].ID)
		assert.Equal(t, "<p>old</p><p>new</p>", payload.Fields[0].Content)
	})

	t.Run("document with no fields is rejected without a write", func(t *testing.T) {
		t.Parallel()

		var puts atomic.Int64
		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			if r.Method == nethttp.MethodPut {
				puts.Add(1)
			}
			fmt.Fprint(w, `{"id": 42, "globalId": "SD42", "fields": []}`)
		}))

		err := c.AppendToDocument(context.Background(), 42, "<p>x</p>")

		assert.Equal(t, webclip.EINELIGIBLE, webclip.ErrorCode(err))
		assert.Contains(t, webclip.ErrorMessage(err), "no editable fields")
		assert.Zero(t, puts.Load())
	})

	t.Run("document with two fields is rejected without a write", func(t *testing.T) {
		t.Parallel()

		var puts atomic.Int64
		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			if r.Method == nethttp.MethodPut {
				puts.Add(1)
			}
			fmt.Fprint(w, `{"id": 42, "globalId": "SD42", "fields": [{"id": 1, "content": ""}, {"id": 2, "content": ""}]}`)
		}))

		err := c.AppendToDocument(context.Background(), 42, "<p>x</p>")

		assert.Equal(t, webclip.EINELIGIBLE, webclip.ErrorCode(err))
		assert.Contains(t, webclip.ErrorMessage(err), "form-based documents unsupported")
		assert.Zero(t, puts.Load())
	})

	t.Run("missing document", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.WriteHeader(nethttp.StatusNotFound)
		}))

		err := c.AppendToDocument(context.Background(), 42, "<p>x</p>")
		assert.Equal(t, webclip.ENOTFOUND, webclip.ErrorCode(err))
	})
}

func TestClient_UploadFile(t *testing.T) {
	t.Parallel()

	responses := []struct {
		name string
		body string
		want string
	}{
		{"direct id field", `{"id": "file-123"}`, "file-123"},
		{"numeric id field", `{"id": 99}`, "99"},
		{"global id pattern", `{"document": {"ref": "FI77"}}`, "FI77"},
		{"self link path", `{"links": {"self": "https://server/api/v1/files/abc-9"}}`, "abc-9"},
	}

	for _, tc := range responses {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
				require.Equal(t, "/api/v1/files", r.URL.Path)
				mediaType := r.Header.Get("Content-Type")
				assert.Contains(t, mediaType, "multipart/form-data")

				require.NoError(t, r.ParseMultipartForm(1<<20))
				f, header, err := r.FormFile("file")
				require.NoError(t, err)
				defer f.Close()
				assert.Equal(t, "page.pdf", header.Filename)

				data, err := io.ReadAll(f)
				require.NoError(t, err)
				assert.Equal(t, "%PDF-fake", string(data))

				fmt.Fprint(w, tc.body)
			}))

			fileID, err := c.UploadFile(context.Background(), strings.NewReader("%PDF-fake"), "page.pdf")

			require.NoError(t, err)
			assert.Equal(t, tc.want, fileID)
		})
	}

	t.Run("response without any id", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			fmt.Fprint(w, `{"ok": true}`)
		}))

		_, err := c.UploadFile(context.Background(), strings.NewReader("x"), "page.pdf")
		assert.Equal(t, webclip.EINTERNAL, webclip.ErrorCode(err))
	})
}

func TestClient_LinkFileToDocument(t *testing.T) {
	t.Parallel()

	t.Run("requires a file id", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			t.Error("no request expected")
		}))

		err := c.LinkFileToDocument(context.Background(), 42, "", "<p>x</p>")
		assert.Equal(t, webclip.EINVALID, webclip.ErrorCode(err))
	})

	t.Run("enforces the single-field constraint", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			fmt.Fprint(w, `{"id": 42, "globalId": "SD42", "fields": [{"id": 1, "content": ""}, {"id": 2, "content": ""}]}`)
		}))

		err := c.LinkFileToDocument(context.Background(), 42, "file-1", "<p>x</p>")
		assert.Equal(t, webclip.EINELIGIBLE, webclip.ErrorCode(err))
	})
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}), webcliphttp.WithTimeout(50*time.Millisecond))

	err := c.CheckCredentials(context.Background())

	assert.Equal(t, webclip.ETIMEOUT, webclip.ErrorCode(err))
	assert.Contains(t, webclip.ErrorMessage(err), "timed out")
}

func TestClient_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {}))
	url := srv.URL
	srv.Close()

	c := webcliphttp.NewClient(url, "test-key", webcliphttp.WithRateLimit(0))

	err := c.CheckCredentials(context.Background())
	assert.Equal(t, webclip.EUNAVAILABLE, webclip.ErrorCode(err))
}
