package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/flow-hydraulics/sticker-board/boards"
	"github.com/gorilla/mux"
)

// fixedNow is the clock used for generated sticker ids in tests
var fixedNow = time.UnixMilli(1700000000000)

func newTestService(t *testing.T, store boards.Store) *boards.Service {
	t.Helper()

	if err := store.Init(boards.Seed()); err != nil {
		t.Fatal(err)
	}

	w := boards.NewWriter(store, 100)
	w.Start()
	t.Cleanup(w.Stop)

	return boards.NewService(store, w, boards.WithClock(func() time.Time { return fixedNow }))
}

func newTestRouter(t *testing.T, store boards.Store) *mux.Router {
	t.Helper()

	if store == nil {
		store = newTempFileStore(t)
	}

	router := mux.NewRouter()
	NewBoards(newTestService(t, store)).Register(router)

	return router
}

func newTempFileStore(t *testing.T) *boards.FileStore {
	t.Helper()
	return boards.NewFileStore(filepath.Join(t.TempDir(), "data.json"))
}

func send(router http.Handler, method, path string, body io.Reader) *http.Response {
	return sendWithHeaders(router, method, path, body, nil)
}

func sendWithHeaders(router http.Handler, method, path string, body io.Reader, headers map[string]string) *http.Response {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("content-type", "application/json")

	for hk, hv := range headers {
		req.Header.Set(hk, hv)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr.Result()
}

func assertStatusCode(t *testing.T, res *http.Response, expected int) {
	t.Helper()
	if res.StatusCode != expected {
		bs, err := io.ReadAll(res.Body)
		if err != nil {
			panic(err)
		}
		t.Fatalf("expected HTTP response status code %d, got %d: %s", expected, res.StatusCode, string(bs))
	}
}

func assertBody(t *testing.T, res *http.Response, expected string) {
	t.Helper()
	bs, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(bs)); got != expected {
		t.Errorf("expected response body to equal '%v', got '%v'", expected, got)
	}
}
