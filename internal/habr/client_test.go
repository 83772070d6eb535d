package habr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hyperifyio/gohabr/internal/cache"
	"github.com/hyperifyio/gohabr/internal/document"
	"github.com/hyperifyio/gohabr/internal/fetch"
	"github.com/hyperifyio/gohabr/internal/transform"
)

// stubGetter serves canned bodies keyed by URL path and records requests.
type stubGetter struct {
	mu     sync.Mutex
	bodies map[string]string
	urls   []string
}

func (s *stubGetter) Get(_ context.Context, raw string) ([]byte, string, error) {
	s.mu.Lock()
	s.urls = append(s.urls, raw)
	s.mu.Unlock()
	u, err := url.Parse(raw)
	if err != nil {
		return nil, "", err
	}
	b, ok := s.bodies[u.Path]
	if !ok {
		return nil, "", &fetch.StatusError{Code: http.StatusNotFound}
	}
	return []byte(b), "application/json", nil
}

func (s *stubGetter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}

func newTestClient(bodies map[string]string) (*Client, *stubGetter) {
	g := &stubGetter{bodies: bodies}
	return &Client{BaseURL: "https://example.test/kek/v2", Fetcher: g, Location: time.UTC}, g
}

func TestHeader(t *testing.T) {
	if got := Header("").Get("Cookie"); got != "fl=ru; hl=ru;" {
		t.Fatalf("default cookie: %q", got)
	}
	if got := Header("en").Get("Cookie"); got != "fl=en; hl=en;" {
		t.Fatalf("en cookie: %q", got)
	}
}

func TestGetArticle(t *testing.T) {
	c, g := newTestClient(map[string]string{
		"/kek/v2/articles/42": `{"titleHtml":" Hello ","textHtml":"<div><h2>Intro</h2><p>Body <code>x</code></p></div>"}`,
	})
	a, err := c.GetArticle(context.Background(), "42")
	if err != nil {
		t.Fatalf("GetArticle: %v", err)
	}
	if a.ID != "42" || a.Title != "Hello" {
		t.Fatalf("unexpected article header: %+v", a)
	}
	want := []document.Block{
		document.Header{Level: 2, Text: "Intro"},
		document.Paragraph{Runs: []document.Run{document.Common("Body "), document.CodeSpan("x")}},
	}
	if len(a.Blocks) != len(want) {
		t.Fatalf("blocks: got %#v", a.Blocks)
	}
	for i := range want {
		if !sameBlock(a.Blocks[i], want[i]) {
			t.Fatalf("block %d: got %#v want %#v", i, a.Blocks[i], want[i])
		}
	}
	q, _ := url.Parse(g.urls[0])
	if q.Query().Get("fl") != "ru" || q.Query().Get("hl") != "ru" {
		t.Fatalf("language params missing: %s", g.urls[0])
	}
}

func TestGetArticle_NotFound(t *testing.T) {
	c, _ := newTestClient(map[string]string{})
	_, err := c.GetArticle(context.Background(), "1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetArticle_ReportsDiagnostics(t *testing.T) {
	c, _ := newTestClient(map[string]string{
		"/kek/v2/articles/7": `{"titleHtml":"t","textHtml":"<div><table></table><p>ok</p></div>"}`,
	})
	var col transform.Collector
	c.Sink = &col
	if _, err := c.GetArticle(context.Background(), "7"); err != nil {
		t.Fatalf("GetArticle: %v", err)
	}
	if col.Count(transform.UnsupportedTag) != 1 {
		t.Fatalf("expected one unsupported tag, got %+v", col.Diagnostics())
	}
}

func TestGetArticle_UsesMemoryCache(t *testing.T) {
	c, g := newTestClient(map[string]string{
		"/kek/v2/articles/5": `{"titleHtml":"t","textHtml":"<p>x</p>"}`,
	})
	c.Cache = cache.NewMemory(time.Minute, 0)
	for i := 0; i < 3; i++ {
		if _, err := c.GetArticle(context.Background(), "5"); err != nil {
			t.Fatalf("GetArticle: %v", err)
		}
	}
	if g.calls() != 1 {
		t.Fatalf("expected a single fetch, got %d", g.calls())
	}
}

const articlesJSON = `{
  "pagesCount": 3,
  "publicationIds": ["2", "1", "9"],
  "publicationRefs": {
    "1": {"id": "1", "timePublished": "2021-03-04T05:06:00+00:00", "titleHtml": "First",
          "leadData": {"textHtml": "<p>Lead <b>one</b></p>", "imageUrl": null},
          "tags": [{"titleHtml": "go"}], "complexity": null, "readingTime": 4,
          "author": {"id": "10", "alias": "alice"}},
    "2": {"id": 2, "timePublished": "not a date", "titleHtml": "Second",
          "leadData": {"textHtml": "", "imageUrl": "https://img/2.png"},
          "tags": [], "complexity": "medium", "readingTime": 1, "author": null}
  }
}`

func TestGetArticles(t *testing.T) {
	c, g := newTestClient(map[string]string{"/kek/v2/articles/": articlesJSON})
	items, pages, err := c.GetArticles(context.Background(), "go", 2)
	if err != nil {
		t.Fatalf("GetArticles: %v", err)
	}
	if pages != 3 {
		t.Fatalf("pages: %d", pages)
	}
	if len(items) != 2 || items[0].ID != "2" || items[1].ID != "1" {
		t.Fatalf("expected publication order without missing refs, got %+v", items)
	}
	if items[0].PublishedAt != "not a date" || items[0].Complexity != "medium" || items[0].ImageURL != "https://img/2.png" {
		t.Fatalf("second preview fields: %+v", items[0])
	}
	if items[1].PublishedAt != "04.03.2021 05:06" || items[1].Lead != "Lead one" || items[1].Author != "alice" {
		t.Fatalf("first preview fields: %+v", items[1])
	}
	q, _ := url.Parse(g.urls[0])
	v := q.Query()
	if v.Get("hub") != "go" || v.Get("page") != "2" || v.Get("sort") != "all" || v.Get("perPage") != "20" {
		t.Fatalf("query params: %s", q.RawQuery)
	}
}

const hubsJSON = `{
  "pagesCount": 1,
  "hubRefs": {
    "a": {"id": "a", "alias": "zeta", "titleHtml": "<b>Яндекс</b>", "descriptionHtml": "<p>d</p>", "statistics": {"subscribersCount": 5, "rating": 1.5}},
    "b": {"id": "b", "alias": "alpha", "titleHtml": "Алгоритмы", "statistics": {}},
    "c": {"id": "c", "alias": "beta", "titleHtml": "ёжики", "statistics": {}}
  }
}`

func TestGetHubs_SortedByCollation(t *testing.T) {
	c, g := newTestClient(map[string]string{"/kek/v2/hubs": hubsJSON})
	hubs, _, err := c.GetHubs(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("GetHubs: %v", err)
	}
	var titles []string
	for _, h := range hubs {
		titles = append(titles, h.Title)
	}
	if got := strings.Join(titles, ","); got != "Алгоритмы,ёжики,Яндекс" {
		t.Fatalf("order: %s", got)
	}
	if hubs[2].Subscribers != 5 || hubs[2].Description != "d" {
		t.Fatalf("hub fields: %+v", hubs[2])
	}
	if !strings.Contains(g.urls[0], "/hubs?") {
		t.Fatalf("expected list endpoint, got %s", g.urls[0])
	}
}

func TestGetHubs_Search(t *testing.T) {
	c, g := newTestClient(map[string]string{"/kek/v2/hubs/search": `{"pagesCount":0,"hubRefs":{}}`})
	hubs, _, err := c.GetHubs(context.Background(), 1, "go")
	if err != nil {
		t.Fatalf("GetHubs: %v", err)
	}
	if len(hubs) != 0 {
		t.Fatalf("expected no hubs, got %v", hubs)
	}
	q, _ := url.Parse(g.urls[0])
	if q.Query().Get("q") != "go" {
		t.Fatalf("query: %s", q.RawQuery)
	}
}

const commentsJSON = `{
  "commentRefs": {
    "1": {"id": "1", "parentId": null, "level": 0, "timePublished": "2022-01-01T10:00:00+00:00",
          "message": "<p>root</p><p>second</p>", "score": 3,
          "author": {"alias": "bob", "avatarUrl": null}, "children": ["2", "404"]},
    "2": {"id": "2", "parentId": "1", "level": 1, "timePublished": "2022-01-01T11:00:00+00:00",
          "message": "reply", "score": -1,
          "author": {"alias": "eve", "avatarUrl": "//a/eve.png"}, "children": []},
    "3": {"id": 3, "parentId": null, "level": 0, "timePublished": "",
          "message": "<p>other</p>", "score": 0, "author": {"alias": "zed"}, "children": []}
  },
  "threads": ["3", "1"]
}`

func TestGetComments_BuildsThreads(t *testing.T) {
	c, _ := newTestClient(map[string]string{"/kek/v2/articles/9/comments": commentsJSON})
	threads, err := c.GetComments(context.Background(), "9")
	if err != nil {
		t.Fatalf("GetComments: %v", err)
	}
	if len(threads) != 2 || threads[0].ID != "3" || threads[1].ID != "1" {
		t.Fatalf("thread order: %+v", threads)
	}
	root := threads[1]
	if root.Author.Alias != "bob" || root.Score != 3 || root.PublishedAt != "01.01.2022 10:00" {
		t.Fatalf("root fields: %+v", root)
	}
	if len(root.Blocks) != 2 {
		t.Fatalf("expected two paragraphs in root message, got %#v", root.Blocks)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected missing child to be skipped, got %+v", root.Children)
	}
	reply := root.Children[0]
	if reply.ParentID != "1" || reply.Author.AvatarURL != "//a/eve.png" {
		t.Fatalf("reply fields: %+v", reply)
	}
	if len(reply.Blocks) != 1 || !sameBlock(reply.Blocks[0], document.Text{Run: document.Common("reply")}) {
		t.Fatalf("reply blocks: %#v", reply.Blocks)
	}
}

func countComments(cs []Comment, ids map[string]int) {
	for _, cm := range cs {
		ids[cm.ID]++
		countComments(cm.Children, ids)
	}
}

func TestGetComments_CyclicRefs(t *testing.T) {
	cases := map[string]string{
		"self":      `{"threads":["a"],"commentRefs":{"a":{"id":"a","message":"<p>x</p>","children":["a","a"]}}}`,
		"two nodes": `{"threads":["a","b"],"commentRefs":{"a":{"id":"a","message":"<p>x</p>","children":["b","b"]},"b":{"id":"b","message":"<p>y</p>","children":["a","a"]}}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(map[string]string{"/kek/v2/articles/9/comments": body})
			done := make(chan []Comment, 1)
			go func() {
				threads, err := c.GetComments(context.Background(), "9")
				if err != nil {
					t.Errorf("GetComments: %v", err)
				}
				done <- threads
			}()
			var threads []Comment
			select {
			case threads = <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("GetComments did not return on cyclic refs")
			}
			ids := map[string]int{}
			countComments(threads, ids)
			if ids["a"] != 1 {
				t.Fatalf("expected comment a once, got %v", ids)
			}
			if name == "two nodes" && ids["b"] != 1 {
				t.Fatalf("expected comment b once, got %v", ids)
			}
		})
	}
}

func TestClient_OverHTTP(t *testing.T) {
	var cookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie = r.Header.Get("Cookie")
		if r.URL.Path != "/articles/1" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"titleHtml":"T","textHtml":"<p>hi</p>"}`))
	}))
	defer srv.Close()

	f := &fetch.Client{Header: Header("en"), MaxAttempts: 1, PerRequestTimeout: 2 * time.Second}
	c := &Client{BaseURL: srv.URL, Lang: "en", Fetcher: f}
	a, err := c.GetArticle(context.Background(), "1")
	if err != nil {
		t.Fatalf("GetArticle: %v", err)
	}
	if a.Title != "T" || len(a.Blocks) != 1 {
		t.Fatalf("article: %+v", a)
	}
	if cookie != "fl=en; hl=en;" {
		t.Fatalf("cookie: %q", cookie)
	}
	if _, err := c.GetArticle(context.Background(), "2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func sameBlock(a, b document.Block) bool {
	x, err1 := document.MarshalBlocks([]document.Block{a})
	y, err2 := document.MarshalBlocks([]document.Block{b})
	return err1 == nil && err2 == nil && string(x) == string(y)
}
