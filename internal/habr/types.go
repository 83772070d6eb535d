package habr

import (
	"encoding/json"
	"strconv"

	"github.com/hyperifyio/gohabr/internal/document"
)

// Article is a fetched article body.
type Article struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Blocks document.Blocks `json:"blocks"`
}

// ArticlePreview is one entry of a hub's article list.
type ArticlePreview struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author,omitempty"`
	ReadingTime int      `json:"readingTime"`
	PublishedAt string   `json:"publishedAt"`
	Tags        []string `json:"tags,omitempty"`
	Complexity  string   `json:"complexity,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Lead        string   `json:"lead,omitempty"`
}

type Hub struct {
	ID          string   `json:"id"`
	Alias       string   `json:"alias"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	CommonTags  []string `json:"commonTags,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Subscribers int      `json:"subscribers"`
	Rating      float64  `json:"rating"`
}

type CommentAuthor struct {
	Alias     string `json:"alias"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Comment is a node of a comment thread. Children are ordered as the API
// lists them.
type Comment struct {
	ID          string          `json:"id"`
	ParentID    string          `json:"parentId,omitempty"`
	Level       int             `json:"level"`
	PublishedAt string          `json:"publishedAt"`
	Score       int             `json:"score"`
	Author      CommentAuthor   `json:"author"`
	Message     string          `json:"-"`
	Blocks      document.Blocks `json:"blocks"`
	Children    []Comment       `json:"children,omitempty"`
}

// flexID accepts ids encoded either as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type articleResponse struct {
	TitleHTML string `json:"titleHtml"`
	TextHTML  string `json:"textHtml"`
}

type articlesResponse struct {
	PagesCount      int                        `json:"pagesCount"`
	PublicationIDs  []flexID                   `json:"publicationIds"`
	PublicationRefs map[string]previewResponse `json:"publicationRefs"`
}

type previewResponse struct {
	ID            flexID `json:"id"`
	TimePublished string `json:"timePublished"`
	TitleHTML     string `json:"titleHtml"`
	LeadData      struct {
		TextHTML string  `json:"textHtml"`
		ImageURL *string `json:"imageUrl"`
	} `json:"leadData"`
	Tags []struct {
		TitleHTML string `json:"titleHtml"`
	} `json:"tags"`
	Complexity  *string `json:"complexity"`
	ReadingTime int     `json:"readingTime"`
	Author      *struct {
		ID    flexID `json:"id"`
		Alias string `json:"alias"`
	} `json:"author"`
}

type hubsResponse struct {
	PagesCount int                    `json:"pagesCount"`
	HubRefs    map[string]hubResponse `json:"hubRefs"`
}

type hubResponse struct {
	ID              flexID   `json:"id"`
	Alias           string   `json:"alias"`
	TitleHTML       string   `json:"titleHtml"`
	DescriptionHTML string   `json:"descriptionHtml"`
	CommonTags      []string `json:"commonTags"`
	ImageURL        string   `json:"imageUrl"`
	Statistics      struct {
		SubscribersCount int     `json:"subscribersCount"`
		Rating           float64 `json:"rating"`
	} `json:"statistics"`
}

type commentsResponse struct {
	CommentRefs map[string]commentResponse `json:"commentRefs"`
	Threads     []flexID                   `json:"threads"`
}

type commentResponse struct {
	ID            flexID  `json:"id"`
	ParentID      *flexID `json:"parentId"`
	Level         int     `json:"level"`
	TimePublished string  `json:"timePublished"`
	Message       string  `json:"message"`
	Score         int     `json:"score"`
	Author        struct {
		Alias     string  `json:"alias"`
		AvatarURL *string `json:"avatarUrl"`
	} `json:"author"`
	Children []flexID `json:"children"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func itoa(n int) string { return strconv.Itoa(n) }
