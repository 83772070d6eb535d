// Package habr is a client for the habr.com content API. Article bodies and
// comment messages are returned already converted to the document model.
package habr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hyperifyio/gohabr/internal/cache"
	"github.com/hyperifyio/gohabr/internal/fetch"
	"github.com/hyperifyio/gohabr/internal/transform"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://habr.com/kek/v2"

// DefaultLang is used when Client.Lang is empty.
const DefaultLang = "ru"

const perPage = 20

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("habr: not found")

// Getter fetches a URL body. *fetch.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// Client talks to the content API.
type Client struct {
	BaseURL string
	// Lang selects content and interface language ("ru", "en").
	Lang    string
	Fetcher Getter
	// Cache holds decoded responses; nil disables it.
	Cache *cache.Memory
	// Sink receives transform diagnostics for article and comment bodies.
	Sink transform.Sink
	// Location is used to format publication times; nil means time.Local.
	Location *time.Location
}

// Header returns the request headers the API expects for lang.
func Header(lang string) http.Header {
	if lang == "" {
		lang = DefaultLang
	}
	h := http.Header{}
	h.Set("Cookie", fmt.Sprintf("fl=%s; hl=%s;", lang, lang))
	return h
}

func (c *Client) lang() string {
	if c.Lang == "" {
		return DefaultLang
	}
	return c.Lang
}

func (c *Client) endpoint(path string, params url.Values) (string, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	u.Path = strings.TrimRight(u.Path, "/") + path
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("fl", c.lang())
	q.Set("hl", c.lang())
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if c.Fetcher == nil {
		return errors.New("habr: no fetcher configured")
	}
	u, err := c.endpoint(path, params)
	if err != nil {
		return err
	}
	body, _, err := c.Fetcher.Get(ctx, u)
	if err != nil {
		var se *fetch.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return fmt.Errorf("get %s: %w", path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// GetArticle fetches one article and transforms its body.
func (c *Client) GetArticle(ctx context.Context, id string) (Article, error) {
	if v, ok := c.Cache.Get("article", id); ok {
		return v.(Article), nil
	}
	var resp articleResponse
	if err := c.getJSON(ctx, "/articles/"+url.PathEscape(id), nil, &resp); err != nil {
		return Article{}, err
	}
	a := Article{
		ID:     id,
		Title:  strings.TrimSpace(resp.TitleHTML),
		Blocks: transform.FromHTML(resp.TextHTML, c.Sink),
	}
	c.Cache.Set("article", id, a)
	return a, nil
}

type articlePage struct {
	items []ArticlePreview
	pages int
}

// GetArticles lists a hub's articles, in the API's publication order, and
// returns the total page count.
func (c *Client) GetArticles(ctx context.Context, hub string, page int) ([]ArticlePreview, int, error) {
	key := hub + "|" + itoa(page)
	if v, ok := c.Cache.Get("articles", key); ok {
		p := v.(articlePage)
		return p.items, p.pages, nil
	}
	params := url.Values{}
	params.Set("hub", hub)
	params.Set("page", itoa(page))
	params.Set("sort", "all")
	params.Set("perPage", itoa(perPage))
	var resp articlesResponse
	if err := c.getJSON(ctx, "/articles/", params, &resp); err != nil {
		return nil, 0, err
	}
	out := make([]ArticlePreview, 0, len(resp.PublicationIDs))
	for _, id := range resp.PublicationIDs {
		ref, ok := resp.PublicationRefs[string(id)]
		if !ok {
			continue
		}
		out = append(out, c.preview(ref))
	}
	c.Cache.Set("articles", key, articlePage{items: out, pages: resp.PagesCount})
	return out, resp.PagesCount, nil
}

func (c *Client) preview(r previewResponse) ArticlePreview {
	p := ArticlePreview{
		ID:          string(r.ID),
		Title:       strings.TrimSpace(r.TitleHTML),
		ReadingTime: r.ReadingTime,
		PublishedAt: c.formatTime(r.TimePublished),
		Complexity:  deref(r.Complexity),
		ImageURL:    deref(r.LeadData.ImageURL),
		Lead:        transform.PlainText(r.LeadData.TextHTML),
	}
	if r.Author != nil {
		p.Author = r.Author.Alias
	}
	for _, t := range r.Tags {
		p.Tags = append(p.Tags, t.TitleHTML)
	}
	return p
}

// formatTime renders an RFC 3339 timestamp as "02.01.2006 15:04" in the
// client's location, keeping the raw value when it does not parse.
func (c *Client) formatTime(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("02.01.2006 15:04")
}

type hubPage struct {
	items []Hub
	pages int
}

// GetHubs lists hubs, or searches them when query is non-empty. Titles are
// reduced to plain text and ordered by the client language's collation.
func (c *Client) GetHubs(ctx context.Context, page int, query string) ([]Hub, int, error) {
	key := itoa(page) + "|" + query
	if v, ok := c.Cache.Get("hubs", key); ok {
		p := v.(hubPage)
		return p.items, p.pages, nil
	}
	path := "/hubs"
	if query != "" {
		path = "/hubs/search"
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", itoa(page))
	var resp hubsResponse
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return nil, 0, err
	}
	hubs := make([]Hub, 0, len(resp.HubRefs))
	for _, h := range resp.HubRefs {
		hubs = append(hubs, Hub{
			ID:          string(h.ID),
			Alias:       h.Alias,
			Title:       transform.PlainText(h.TitleHTML),
			Description: transform.PlainText(h.DescriptionHTML),
			CommonTags:  h.CommonTags,
			ImageURL:    h.ImageURL,
			Subscribers: h.Statistics.SubscribersCount,
			Rating:      h.Statistics.Rating,
		})
	}
	c.sortHubs(hubs)
	c.Cache.Set("hubs", key, hubPage{items: hubs, pages: resp.PagesCount})
	return hubs, resp.PagesCount, nil
}

func (c *Client) sortHubs(hubs []Hub) {
	tag, err := language.Parse(c.lang())
	if err != nil {
		tag = language.Russian
	}
	col := collate.New(tag, collate.IgnoreCase)
	sort.SliceStable(hubs, func(i, j int) bool {
		if d := col.CompareString(hubs[i].Title, hubs[j].Title); d != 0 {
			return d < 0
		}
		return hubs[i].Alias < hubs[j].Alias
	})
}

// GetComments fetches an article's comments as threads ordered like the API.
func (c *Client) GetComments(ctx context.Context, articleID string) ([]Comment, error) {
	if v, ok := c.Cache.Get("comments", articleID); ok {
		return v.([]Comment), nil
	}
	var resp commentsResponse
	if err := c.getJSON(ctx, "/articles/"+url.PathEscape(articleID)+"/comments", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]Comment, 0, len(resp.Threads))
	seen := make(map[string]bool, len(resp.CommentRefs))
	for _, id := range resp.Threads {
		if cm, ok := c.buildComment(resp.CommentRefs, string(id), 0, seen); ok {
			out = append(out, cm)
		}
	}
	c.Cache.Set("comments", articleID, out)
	return out, nil
}

// maxThreadDepth bounds recursion on malformed thread graphs.
const maxThreadDepth = 256

// buildComment builds each comment id at most once per response, so repeated
// or cyclic child refs are dropped after their first occurrence.
func (c *Client) buildComment(refs map[string]commentResponse, id string, depth int, seen map[string]bool) (Comment, bool) {
	r, ok := refs[id]
	if !ok || seen[id] || depth > maxThreadDepth {
		return Comment{}, false
	}
	seen[id] = true
	cm := Comment{
		ID:          string(r.ID),
		Level:       r.Level,
		PublishedAt: c.formatTime(r.TimePublished),
		Score:       r.Score,
		Author:      CommentAuthor{Alias: r.Author.Alias, AvatarURL: deref(r.Author.AvatarURL)},
		Message:     r.Message,
		// Messages are usually several sibling paragraphs without a wrapper.
		Blocks: transform.FromHTML("<div>"+r.Message+"</div>", c.Sink),
	}
	if r.ParentID != nil {
		cm.ParentID = string(*r.ParentID)
	}
	for _, child := range r.Children {
		if sub, ok := c.buildComment(refs, string(child), depth+1, seen); ok {
			cm.Children = append(cm.Children, sub)
		}
	}
	return cm, true
}
