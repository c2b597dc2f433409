package api

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/autopropelidos/portal-996/app/cfg"
	"github.com/autopropelidos/portal-996/app/content"
	"github.com/autopropelidos/portal-996/app/database"
)

// Generator writes RSS 2.0 for re-published item collections.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Run(source database.Source, items []content.Item) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", source.Title, 4)
	g.writeElement(&buf, "link", source.Link, 4)
	description := source.Description
	if description == "" {
		description = fmt.Sprintf("Re-published feed from %s", source.Name)
	}
	g.writeElement(&buf, "description", description, 4)

	var selfLink string
	if cfg.Get().BaseUrl != "" {
		selfLink = fmt.Sprintf("%s/feeds/%s", cfg.Get().BaseUrl, source.Name)
	} else {
		selfLink = fmt.Sprintf("http://localhost:%s/feeds/%s", cfg.Get().Port, source.Name)
	}
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(selfLink)))

	lastBuildDate := time.Now().In(time.Local)
	if len(items) > 0 {
		if published, ok := content.ItemTime(items[0]); ok {
			lastBuildDate = published
		}
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Portal996/%s", cfg.Get().Version), 4)
	if source.Language != "" {
		g.writeElement(&buf, "language", source.Language, 4)
	}

	if source.ImageURL != "" {
		buf.WriteString("    <image>\n")
		g.writeElement(&buf, "url", source.ImageURL, 6)
		g.writeElement(&buf, "title", source.Title, 6)
		g.writeElement(&buf, "link", source.Link, 6)
		buf.WriteString("    </image>\n")
	}

	for _, item := range items {
		g.writeItem(&buf, item)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, item content.Item) {
	buf.WriteString("    <item>\n")

	guid := cmp.Or(item.URL, item.ID)
	if guid != "" {
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(guid)))
		xml.EscapeText(buf, []byte(guid))
		buf.WriteString("</guid>\n")
	}

	if item.Title != "" {
		g.writeElement(buf, "title", item.Title, 6)
	}

	if item.URL != "" {
		g.writeElement(buf, "link", item.URL, 6)
	}

	g.writeElement(buf, "description", cmp.Or(item.Description, "No description available"), 6)

	if item.Content != "" && item.Content != item.Description {
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(item.Content)
		buf.WriteString("]]></content:encoded>\n")
	}

	if published, ok := content.ItemTime(item); ok {
		g.writeElement(buf, "pubDate", published.Format(time.RFC1123Z), 6)
	}

	if sourceName := item.SourceName(); sourceName != "" {
		g.writeElement(buf, "source", sourceName, 6)
	}

	g.writeElement(buf, "category", string(item.Category), 6)
	for _, tag := range item.Tags {
		if tag != "" {
			g.writeElement(buf, "category", tag, 6)
		}
	}

	// Carry the item image as an enclosure (RSS 2.0 requires url, length, type)
	if item.ImageURL != "" {
		buf.WriteString(fmt.Sprintf("      <enclosure url=\"%s\" length=\"0\" type=\"image/jpeg\" />\n",
			html.EscapeString(item.ImageURL)))
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, value string, indent int) {
	if value == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(value))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return (len(s) > 7 && s[:7] == "http://") || (len(s) > 8 && s[:8] == "https://")
}
