// Command site serves a small static site with filterable collection pages,
// the JSON index manifest and an RSS feed, for local development.
package main

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const pageSize = 3

type item struct {
	Slug       string
	Collection string
	Title      string
	Published  time.Time
	Tags       []string
}

var items = []item{
	{"census-day", "events", "Census Day briefing", date(2025, 4, 1), []string{"CENSUS"}},
	{"mapping-workshop", "events", "Mapping workshop", date(2025, 2, 12), []string{"GEOGRAPHY"}},
	{"boundary-webinar", "events", "Boundary files webinar", date(2024, 11, 5), []string{"GEOGRAPHY"}},
	{"data-users-forum", "events", "Data users forum", date(2024, 6, 20), []string{"CENSUS", "SURVEYS"}},
	{"survey-methods", "events", "Survey methods seminar", date(2023, 9, 14), []string{"SURVEYS"}},
	{"atlas-launch", "events", "Atlas launch", date(2023, 3, 2), []string{"GEOGRAPHY"}},
	{"open-house", "events", "Open house", date(2022, 10, 8), nil},
	{"population-estimates", "news", "Population estimates released", date(2025, 5, 30), []string{"CENSUS"}},
	{"new-tiger-files", "news", "New boundary files", date(2024, 12, 2), []string{"GEOGRAPHY"}},
	{"survey-response", "news", "Survey response rates", date(2024, 1, 17), []string{"SURVEYS"}},
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func byCollection(collection string) []item {
	var out []item
	for _, it := range items {
		if it.Collection == collection {
			out = append(out, it)
		}
	}
	return out
}

var collectionTmpl = template.Must(template.New("collection").Parse(`<!DOCTYPE html>
<html lang="en"><head><meta charset="utf-8"><title>{{.Collection}}</title></head>
<body>
<div id="collection-filters" hidden data-base-url="/{{.Collection}}/" data-page-size="{{.PageSize}}"
     data-current-page="{{.Page}}" data-collection-name="{{.Collection}}"
     data-filter-tag="{{.Collection}}_tag" data-filter-year="{{.Collection}}_year"></div>
<div id="filters" hidden>
  <nav id="tag-nav" hidden><label for="tag">Tag</label><select id="tag" name="tag"></select></nav>
  <nav id="year-nav" hidden><label for="year">Year</label><select id="year" name="year"></select></nav>
</div>
<ul id="collection-list">
{{range .Items}}  <li class="card"><a href="/{{.Collection}}/{{.Slug}}/">{{.Title}}</a> <time>{{.Published.Format "2006-01-02"}}</time></li>
{{end}}</ul>
<ul id="pagination-list">
{{range .Pages}}  <li><a id="pagination-page-link-{{.}}" href="{{if eq . 1}}/{{$.Collection}}/{{else}}/{{$.Collection}}/page/{{.}}/{{end}}">{{.}}</a></li>
{{end}}</ul>
<template id="pagination-prev-template"><li><a href="/{{.Collection}}/?page=">Previous</a></li></template>
<template id="pagination-next-template"><li><a href="/{{.Collection}}/?page=">Next</a></li></template>
<template id="pagination-page-template"><li><a href="/{{.Collection}}/?page="></a></li></template>
<template id="pagination-page-current-template"><li class="current"><a aria-current="page" href="/{{.Collection}}/?page="></a></li></template>
<template id="pagination-overflow-template"><li class="overflow">&hellip;</li></template>
</body></html>
`))

var itemTmpl = template.Must(template.New("item").Parse(`<!DOCTYPE html>
<html lang="en"><head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<template id="collection-item-{{.Slug}}"><li class="card"><a href="/{{.Collection}}/{{.Slug}}/">{{.Title}}</a> <time>{{.Published.Format "2006-01-02"}}</time></li></template>
</body></html>
`))

func serveCollection(w http.ResponseWriter, r *http.Request, collection string, rest []string) {
	all := byCollection(collection)
	totalPages := (len(all) + pageSize - 1) / pageSize

	switch {
	case len(rest) == 0:
		renderCollection(w, collection, all, 1, totalPages)
	case len(rest) == 2 && rest[0] == "page":
		page, err := strconv.Atoi(rest[1])
		if err != nil || page < 1 || page > totalPages {
			http.NotFound(w, r)
			return
		}
		renderCollection(w, collection, all, page, totalPages)
	case len(rest) == 1:
		for _, it := range all {
			if it.Slug == rest[0] {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				if err := itemTmpl.Execute(w, it); err != nil {
					log.Printf("[site] render item: %v", err)
				}
				return
			}
		}
		http.NotFound(w, r)
	default:
		http.NotFound(w, r)
	}
}

func renderCollection(w http.ResponseWriter, collection string, all []item, page, totalPages int) {
	start := (page - 1) * pageSize
	pages := make([]int, totalPages)
	for i := range pages {
		pages[i] = i + 1
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := collectionTmpl.Execute(w, map[string]any{
		"Collection": collection,
		"PageSize":   pageSize,
		"Page":       page,
		"Items":      all[start:min(start+pageSize, len(all))],
		"Pages":      pages,
	})
	if err != nil {
		log.Printf("[site] render collection: %v", err)
	}
}

type manifestEntry struct {
	ID               string              `json:"id"`
	Collection       string              `json:"collection"`
	URL              string              `json:"url"`
	Title            string              `json:"title"`
	SortField        string              `json:"sort_field"`
	CollectionItemID string              `json:"collection_item_id"`
	Filters          map[string][]string `json:"filters"`
}

func serveManifest(w http.ResponseWriter, _ *http.Request) {
	events := byCollection("events")
	entries := make([]manifestEntry, len(events))
	for i, it := range events {
		entries[i] = manifestEntry{
			ID:               it.Slug,
			Collection:       it.Collection,
			URL:              "/" + it.Collection + "/" + it.Slug + "/",
			Title:            it.Title,
			SortField:        it.Published.Format(time.RFC3339),
			CollectionItemID: "collection-item-" + it.Slug,
			Filters: map[string][]string{
				"tag":  it.Tags,
				"year": {strconv.Itoa(it.Published.Year())},
			},
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"entries":      entries,
	}); err != nil {
		log.Printf("[site] write manifest: %v", err)
	}
}

type rssItem struct {
	Title      string   `xml:"title"`
	Link       string   `xml:"link"`
	GUID       string   `xml:"guid"`
	PubDate    string   `xml:"pubDate"`
	Categories []string `xml:"category"`
}

func serveFeed(w http.ResponseWriter, r *http.Request) {
	news := byCollection("news")
	feedItems := make([]rssItem, len(news))
	for i, it := range news {
		feedItems[i] = rssItem{
			Title:      it.Title,
			Link:       fmt.Sprintf("http://%s/news/%s/", r.Host, it.Slug),
			GUID:       it.Slug,
			PubDate:    it.Published.Format(time.RFC1123Z),
			Categories: it.Tags,
		}
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	_, _ = w.Write([]byte(xml.Header))
	err := xml.NewEncoder(w).Encode(struct {
		XMLName xml.Name `xml:"rss"`
		Version string   `xml:"version,attr"`
		Channel struct {
			Title string    `xml:"title"`
			Items []rssItem `xml:"item"`
		} `xml:"channel"`
	}{Version: "2.0", Channel: struct {
		Title string    `xml:"title"`
		Items []rssItem `xml:"item"`
	}{Title: "News", Items: feedItems}})
	if err != nil {
		log.Printf("[site] write feed: %v", err)
	}
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/index/manifest.json", serveManifest)
	mux.HandleFunc("/news/feed.xml", serveFeed)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if r.URL.Path == "/" {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`<!DOCTYPE html><html><body><a href="/events/">Events</a> <a href="/news/">News</a></body></html>`))
			return
		}
		switch parts[0] {
		case "events", "news":
			serveCollection(w, r, parts[0], parts[1:])
		default:
			http.NotFound(w, r)
		}
		log.Printf("[site] %s %s", r.Method, r.URL.Path)
	})

	log.Println("Mock site running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
