package reddit

import (
	"encoding/json"
	"html"
	"strings"

	"github.com/DFATPUNK/scraping-reddit/internal/domain"
)

// Thread is the submission a batch of comments hangs off.
type Thread struct {
	ID        string
	Title     string
	SelfText  string
	Subreddit string
	Author    string
	URL       string
}

// ThreadRef points at a submission found by search, enough to fetch it.
type ThreadRef struct {
	ID        string
	Subreddit string
	Permalink string
}

// Reddit listing JSON. A thread endpoint returns a two-element array:
// the submission listing, then the comment tree.
type listing struct {
	Kind string      `json:"kind"`
	Data listingData `json:"data"`
}

type listingData struct {
	Children []child `json:"children"`
	After    string  `json:"after"`
}

type child struct {
	Kind string    `json:"kind"`
	Data childData `json:"data"`
}

type childData struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	SelfText  string `json:"selftext"`
	Subreddit string `json:"subreddit"`
	Author    string `json:"author"`
	Permalink string `json:"permalink"`
	Body      string `json:"body"`
	Ups       int    `json:"ups"`

	// Replies is a nested listing for comments with children, or the
	// empty string for leaves. RawMessage defers that distinction.
	Replies json.RawMessage `json:"replies"`
}

// flattenComments walks the comment tree depth-first, skipping "more"
// stubs, and returns t1 comments in display order.
func flattenComments(children []child) []childData {
	var out []childData
	for _, ch := range children {
		if ch.Kind != "t1" {
			continue
		}
		out = append(out, ch.Data)
		if len(ch.Data.Replies) > 0 && ch.Data.Replies[0] == '{' {
			var nested listing
			if err := json.Unmarshal(ch.Data.Replies, &nested); err == nil {
				out = append(out, flattenComments(nested.Data.Children)...)
			}
		}
	}
	return out
}

// toRawItem maps one comment onto the scoring pipeline's input type.
// Bodies are HTML-unescaped; deleted authors keep Reddit's placeholder.
func toRawItem(thread *Thread, c childData, order int) domain.RawItem {
	author := c.Author
	if author == "" {
		author = "[deleted]"
	}
	return domain.RawItem{
		Subreddit:   thread.Subreddit,
		ThreadTitle: thread.Title,
		ThreadURL:   thread.URL,
		CommentURL:  permalinkURL(c.Permalink),
		Author:      author,
		Body:        strings.TrimSpace(html.UnescapeString(c.Body)),
		Upvotes:     c.Ups,
		Order:       order,
	}
}

func permalinkURL(permalink string) string {
	if permalink == "" {
		return ""
	}
	if strings.HasPrefix(permalink, "http") {
		return permalink
	}
	return "https://www.reddit.com" + permalink
}
