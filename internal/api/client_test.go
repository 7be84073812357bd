package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New(Config{BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "://bad"})
	assert.Error(t, err)
}

func TestClient_URL(t *testing.T) {
	c, err := New(Config{BaseURL: "http://example.com/root/"})
	require.NoError(t, err)

	assert.Equal(t, "http://example.com/root/api/file/docs/a.txt", c.URL(FileEndpoint("/docs/a.txt"), nil))
	assert.Equal(t, "http://example.com/root/api/dir/New%20Folder", c.URL(DirEndpoint("/New Folder"), nil))
}

func TestClient_CSRFHeaderFollowsCookie(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get(CSRFHeader))
		if r.URL.Path == "/api/login" {
			http.SetCookie(w, &http.Cookie{Name: CSRFCookie, Value: "tok123", Path: "/"})
		}
		w.Write([]byte("ok"))
	})

	ctx := context.Background()
	require.NoError(t, c.Login(ctx, LoginForm{Name: "alice", Password: "secret"}))
	require.NoError(t, c.CreateDir(ctx, "/docs/new"))

	require.Len(t, seen, 2)
	assert.Empty(t, seen[0])
	assert.Equal(t, "tok123", seen[1])
	assert.Equal(t, "tok123", c.Cookie(CSRFCookie))
	assert.Equal(t, "tok123", c.Cookies()[CSRFCookie])
}

func TestClient_SetCookiesRestoresSession(t *testing.T) {
	var header string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get(CSRFHeader)
		w.Write([]byte("[]"))
	})

	c.SetCookies(map[string]string{CSRFCookie: "saved"})
	_, err := c.ListDir(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, "saved", header)
}

func TestClient_StatusErrors(t *testing.T) {
	codes := []int{400, 401, 403, 404, 500, 503, StatusCaptchaRequired, StatusBadCredentials, StatusCaptchaLocked, StatusBadExtension, StatusBadPath, 418}
	for _, code := range codes {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
			w.Write([]byte("nope"))
		})

		_, err := c.ListDir(context.Background(), "/")
		require.Error(t, err)

		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, code, se.Code)
		assert.Equal(t, "nope", se.Body)
		assert.Equal(t, StatusMessage(code), UserMessage(err))
	}

	assert.Equal(t, "unknown error", StatusMessage(418))
	assert.True(t, IsUnauthorized(&StatusError{Code: 401}))
	assert.True(t, IsForbidden(&StatusError{Code: 403}))
	assert.True(t, NeedsCaptcha(&StatusError{Code: StatusCaptchaRequired}))
	assert.True(t, NeedsCaptcha(&StatusError{Code: StatusCaptchaLocked}))
	assert.False(t, NeedsCaptcha(&StatusError{Code: StatusBadCredentials}))
	assert.True(t, IsBadCredentials(&StatusError{Code: StatusBadCredentials}))
}

func TestClient_ListDirAndSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/dir/docs/":
			json.NewEncoder(w).Encode([]Entry{{Path: "/docs/", Name: "a.txt", FileSize: 3, ModTime: 1}})
		case "/api/files/docs/":
			assert.Equal(t, "report", r.URL.Query().Get("Expr"))
			json.NewEncoder(w).Encode([]Entry{{Path: "/docs/2024/", Name: "report.txt"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()
	entries, err := c.ListDir(ctx, "/docs/")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Name)

	hits, err := c.Search(ctx, "/docs/", "report")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "/docs/2024/", hits[0].Path)
}

func TestClient_Mutations(t *testing.T) {
	type call struct {
		method, path, form string
	}
	var calls []call
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		calls = append(calls, call{r.Method, r.URL.Path, r.Form.Encode()})
	})

	ctx := context.Background()
	require.NoError(t, c.CreateDir(ctx, "/docs/new"))
	require.NoError(t, c.DeleteDir(ctx, "/docs/old"))
	require.NoError(t, c.DeleteFile(ctx, "/docs/a.txt"))
	require.NoError(t, c.Rename(ctx, "/docs/b.txt", "c.txt"))
	require.NoError(t, c.RemoveUsers(ctx, []int64{3, 4}))

	assert.Equal(t, []call{
		{http.MethodPost, "/api/dir/docs/new", ""},
		{http.MethodDelete, "/api/dir/docs/old", ""},
		{http.MethodDelete, "/api/file/docs/a.txt", ""},
		{http.MethodPut, "/api/file/docs/b.txt", "NewName=c.txt"},
		{http.MethodDelete, "/api/usrs", "UidList=3&UidList=4"},
	}, calls)
}

func TestClient_Upload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/file/docs/notes.txt", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "notes.txt", r.FormValue("FileName"))
		f, hdr, err := r.FormFile("File")
		require.NoError(t, err)
		defer f.Close()
		body, _ := io.ReadAll(f)
		assert.Equal(t, "hello", string(body))
		assert.Equal(t, "notes.txt", hdr.Filename)
		w.Write([]byte(" uploaded \n"))
	})

	text, err := c.Upload(context.Background(), FileEndpoint("/docs/notes.txt"), "notes.txt", strings.NewReader("hello"), 5)
	require.NoError(t, err)
	assert.Equal(t, "uploaded", text)
}

func TestClient_FetchAndReadFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/archive/docs":
			w.Header().Set("Content-Disposition", `attachment; filename="docs.zip"`)
			w.Write([]byte("PK"))
		case "/api/file/big.txt":
			w.Write([]byte(strings.Repeat("x", 100)))
		default:
			w.Write([]byte("hello"))
		}
	})

	ctx := context.Background()
	s, err := c.Fetch(ctx, ArchiveEndpoint("/docs"))
	require.NoError(t, err)
	data, _ := io.ReadAll(s)
	require.NoError(t, s.Close())
	assert.Equal(t, "docs.zip", s.Name)
	assert.Equal(t, "PK", string(data))

	got, err := c.ReadFile(ctx, "/a.txt", 10)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	_, err = c.ReadFile(ctx, "/big.txt", 10)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestClient_ListPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/usrs", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("Page"))
		w.Write([]byte(`{"Sum": 12, "UsrList": [{"Uid": 1, "Name": "alice"}]}`))
	})

	sum, raw, err := c.ListPage(context.Background(), "/api/usrs", UserListKey, map[string][]string{"Page": {"2"}})
	require.NoError(t, err)
	assert.Equal(t, int64(12), sum)

	var users []UserRecord
	require.NoError(t, json.Unmarshal(raw, &users))
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Name)
}

func TestClient_MeAndGraph(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/usr":
			w.Write([]byte(`{"Name":"alice","Class":"系统管理员","CurrentIp":16909060}`))
		case "/api/graph/":
			q := r.URL.Query()
			assert.Equal(t, "Day", q.Get("Flag"))
			assert.Equal(t, "10", q.Get("Limit"))
			assert.Empty(t, q.Get("Year"))
			w.Write([]byte(`{"Flag":"Day","PointList":[{"Year":2024,"Month":3,"Day":15,"Cnt":7}]}`))
		}
	})

	ctx := context.Background()
	u, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, LevelSystemAdmin, u.Level())

	g, err := c.Graph(ctx, "/", GraphQuery{Flag: GraphDay, Day: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, g.PointList, 1)
	assert.Equal(t, 7, g.PointList[0].Cnt)
}

func TestClassLevel(t *testing.T) {
	assert.Equal(t, LevelSystemAdmin, ClassLevel(ClassSystemAdmin))
	assert.Equal(t, LevelConfigAdmin, ClassLevel(ClassConfigAdmin))
	assert.Equal(t, LevelUser, ClassLevel(ClassUser))
	assert.Equal(t, LevelGuest, ClassLevel(ClassGuest))
	assert.Equal(t, LevelGuest, ClassLevel("martian"))
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "/api/file", endpointLabel("/api/file/docs/a.txt"))
	assert.Equal(t, "/api/usrs", endpointLabel("/api/usrs"))
}
