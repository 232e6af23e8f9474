package manaba

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"manaba-go/lib/htmlutil"
	"manaba-go/lib/scrapers/manaba/core"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

var (
	newsIDRegex = regexp.MustCompile(`course_[0-9]+_news_([0-9]+)`)
	// Some deployments render the last-modified box as plain text
	// instead of an author link. The timestamp there has no seconds and
	// may carry a doubled space.
	lastModifiedRegex = regexp.MustCompile(`最終更新 (.+) ([0-9]{4}-[0-9]{2}-[0-9]{2} +[0-9]{2}:[0-9]{2})`)
)

// NewsList lists the announcements of a course. Only the list columns
// are filled; fetch the body and edit history with News.
func (c Client) NewsList(ctx context.Context, courseID int, opts PageOptions) ([]CourseNews, error) {
	ctx, span := tracer.Start(ctx, "client:NewsList")
	defer span.End()

	doc, err := c.core.GetDoc(ctx, courseURL(courseID)+"_news"+opts.query())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch news list")
		return nil, err
	}

	stdList := doc.Find("table.stdlist").First()
	if stdList.Length() == 0 {
		return nil, nil
	}

	var news []CourseNews
	var walkErr error
	stdList.Find("tr.row, tr.row0, tr.row1").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		tds := tr.Find("td")
		if tds.Length() < 3 {
			walkErr = fmt.Errorf("news row has %d cells: %w", tds.Length(), ErrMalformedPage)
			return false
		}

		newsID, err := idFromHref(newsIDRegex, tds.Eq(0).Find("a").First().AttrOr("href", ""))
		if err != nil {
			walkErr = err
			return false
		}
		postedAt, err := ParseDateTime(strings.TrimSpace(tds.Eq(2).Text()))
		if err != nil {
			walkErr = err
			return false
		}

		news = append(news, CourseNews{
			CourseID: courseID,
			ID:       newsID,
			Title:    htmlutil.CleanText(tds.Eq(0).Text()),
			Author:   htmlutil.CleanText(tds.Eq(1).Text()),
			PostedAt: postedAt,
		})
		return true
	})
	if walkErr != nil {
		span.RecordError(walkErr)
		span.SetStatus(codes.Error, "failed to parse news list")
		return nil, walkErr
	}
	return news, nil
}

// News fetches one announcement with its body, attachments and edit
// history.
func (c Client) News(ctx context.Context, courseID, newsID int) (CourseNews, error) {
	ctx, span := tracer.Start(ctx, "client:News")
	defer span.End()

	doc, err := c.core.GetDoc(ctx, fmt.Sprintf("%s_news_%d", courseURL(courseID), newsID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch news page")
		return CourseNews{}, err
	}

	subject := doc.Find("h2.msg-subject").First()
	if subject.Length() == 0 {
		err := fmt.Errorf("news %d in course %d: %w", newsID, courseID, core.ErrNotFound)
		span.SetStatus(codes.Error, err.Error())
		return CourseNews{}, err
	}

	news := CourseNews{
		CourseID: courseID,
		ID:       newsID,
		Title:    htmlutil.CleanText(subject.Text()),
	}

	// msg-info either links the author or renders "投稿者 <name>" flat
	info := doc.Find("div.msg-info").First()
	if authorLink := info.Find(`a[href="#"]`); authorLink.Length() > 0 {
		news.Author = htmlutil.CleanText(authorLink.First().Text())
	} else {
		news.Author = htmlutil.CleanText(strings.ReplaceAll(info.Text(), "投稿者", ""))
	}

	news.PostedAt, err = ParseDateTime(strings.TrimSpace(doc.Find("span.msg-date").First().Text()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse news post time")
		return CourseNews{}, err
	}

	if body := doc.Find("div.msg-text").First(); body.Length() > 0 {
		news.HTML, err = rawHTML(body)
		if err != nil {
			span.RecordError(err)
			return CourseNews{}, err
		}
	}

	if err := parseLastModified(doc.Find("div.msg-lastmod").First(), &news); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse news edit history")
		return CourseNews{}, err
	}

	news.Files, err = parseAttachments(c.core.BaseUrl, doc.Selection)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse news attachments")
		return CourseNews{}, err
	}
	return news, nil
}

// parseLastModified fills the edit history fields from the msg-lastmod
// box, which is absent on never-edited posts. The editor is either an
// anchor followed by the timestamp text node, or one flat
// "最終更新 <name> <timestamp>" string.
func parseLastModified(lastMod *goquery.Selection, news *CourseNews) error {
	if lastMod.Length() == 0 {
		return nil
	}

	if anchor := lastMod.Find("a").First(); anchor.Length() > 0 {
		news.LastEditedBy = htmlutil.CleanText(anchor.Text())
		if next := anchor.Nodes[0].NextSibling; next != nil {
			at, err := ParseDateTime(strings.TrimSpace(htmlutil.GetText(next)))
			if err != nil {
				return err
			}
			news.LastEditedAt = at
		}
		return nil
	}

	groups := lastModifiedRegex.FindStringSubmatch(strings.TrimSpace(lastMod.Text()))
	if groups == nil {
		return nil
	}
	news.LastEditedBy = htmlutil.CleanText(groups[1])
	at, err := ParseDateTime(groups[2])
	if err != nil {
		return err
	}
	news.LastEditedAt = at
	return nil
}
