package manaba

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"manaba-go/lib/htmlutil"
	"manaba-go/lib/scrapers/manaba/core"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

var (
	contentIDRegex = regexp.MustCompile(`page_(.+)`)
	pageIDRegex    = regexp.MustCompile(`page_[a-z0-9]+_([a-z0-9]+)`)

	// The publish window renders as "<start> ～ <end>" with either side
	// optional. Matched most-specific first.
	publishBothRegex  = regexp.MustCompile(`([0-9]{4}-[0-9]{2}-[0-9]{2} [0-9]{2}:[0-9]{2}:[0-9]{2}) ～ ([0-9]{4}-[0-9]{2}-[0-9]{2} [0-9]{2}:[0-9]{2}:[0-9]{2})`)
	publishStartRegex = regexp.MustCompile(`([0-9]{4}-[0-9]{2}-[0-9]{2} [0-9]{2}:[0-9]{2}:[0-9]{2}) ～`)
	publishEndRegex   = regexp.MustCompile(`～ ([0-9]{4}-[0-9]{2}-[0-9]{2} [0-9]{2}:[0-9]{2}:[0-9]{2})`)

	// "<last edited> - <author>- <version>版"
	articleAuthorRegex = regexp.MustCompile(`([0-9]{4}-[0-9]{2}-[0-9]{2} [0-9]{2}:[0-9]{2}) - (.+)- ([0-9.]+)版`)
)

// Contents lists the content collections of a course. Content ids are
// opaque strings assigned by manaba, not numbers.
func (c Client) Contents(ctx context.Context, courseID int) ([]Content, error) {
	ctx, span := tracer.Start(ctx, "client:Contents")
	defer span.End()

	doc, err := c.core.GetDoc(ctx, courseURL(courseID)+"_page")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch content list")
		return nil, err
	}

	contentsList := doc.Find("table.contentslist").First()
	if contentsList.Length() == 0 {
		return nil, nil
	}

	var contents []Content
	var walkErr error
	contentsList.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		about := tr.Find("td.about-contents").First()
		if about.Length() == 0 {
			return true
		}
		anchor := about.Find("a").First()

		groups := contentIDRegex.FindStringSubmatch(anchor.AttrOr("href", ""))
		if groups == nil {
			walkErr = fmt.Errorf("content href %q has no id: %w", anchor.AttrOr("href", ""), ErrMalformedPage)
			return false
		}

		contents = append(contents, Content{
			CourseID:    courseID,
			ID:          groups[1],
			Title:       htmlutil.CleanText(anchor.Text()),
			Description: htmlutil.CleanText(about.Find("span").First().Text()),
		})
		return true
	})
	if walkErr != nil {
		span.RecordError(walkErr)
		span.SetStatus(codes.Error, "failed to parse content list")
		return nil, walkErr
	}
	return contents, nil
}

// ContentPages lists the pages of a content collection. Only ids and
// titles come from the index; fetch everything else with ContentPage.
func (c Client) ContentPages(ctx context.Context, contentID string) ([]ContentPage, error) {
	ctx, span := tracer.Start(ctx, "client:ContentPages")
	defer span.End()

	doc, err := c.core.GetDoc(ctx, "/ct/page_"+contentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch content index")
		return nil, err
	}
	if doc.Find("div.articletext").Length() == 0 {
		err := fmt.Errorf("content %s: %w", contentID, core.ErrNotFound)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	courseID, err := idFromHref(courseIDRegex, doc.Find("a#coursename").First().AttrOr("href", ""))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve owning course")
		return nil, err
	}

	var pages []ContentPage
	var walkErr error
	doc.Find("ul.contentslist li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		pageID, err := idFromHref(pageIDRegex, li.Find("a").First().AttrOr("href", ""))
		if err != nil {
			walkErr = err
			return false
		}
		pages = append(pages, ContentPage{
			CourseID:  courseID,
			ContentID: contentID,
			ID:        pageID,
			Title:     htmlutil.CleanText(li.Text()),
		})
		return true
	})
	if walkErr != nil {
		span.RecordError(walkErr)
		span.SetStatus(codes.Error, "failed to parse content index")
		return nil, walkErr
	}
	return pages, nil
}

// ContentPage fetches one page of a content collection. Pages outside
// their publish window come back with Viewable false and no body or
// attachments.
func (c Client) ContentPage(ctx context.Context, contentID string, pageID int) (ContentPage, error) {
	ctx, span := tracer.Start(ctx, "client:ContentPage")
	defer span.End()

	doc, err := c.core.GetDoc(ctx, fmt.Sprintf("/ct/page_%s_%d", contentID, pageID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch content page")
		return ContentPage{}, err
	}
	articleText := doc.Find("div.articletext").First()
	if articleText.Length() == 0 {
		err := fmt.Errorf("page %d of content %s: %w", pageID, contentID, core.ErrNotFound)
		span.SetStatus(codes.Error, err.Error())
		return ContentPage{}, err
	}

	courseID, err := idFromHref(courseIDRegex, doc.Find("a#coursename").First().AttrOr("href", ""))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve owning course")
		return ContentPage{}, err
	}

	page := ContentPage{
		CourseID:  courseID,
		ContentID: contentID,
		ID:        pageID,
		Title:     htmlutil.CleanText(doc.Find("h1.pagetitle").First().Text()),
		Viewable:  doc.Find("div.pageviewdisabled").Length() == 0,
	}

	publishStart, publishEnd, err := parsePublishWindow(doc.Find("div.pagelimitview").First().Text())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse publish window")
		return ContentPage{}, err
	}
	page.PublishStartAt = publishStart
	page.PublishEndAt = publishEnd

	authorLine := strings.TrimSpace(doc.Find("div.articleauthor").First().Text())
	if groups := articleAuthorRegex.FindStringSubmatch(authorLine); groups != nil {
		page.LastEditedAt, err = ParseDateTime(groups[1])
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse edit time")
			return ContentPage{}, err
		}
		page.Author = strings.TrimSpace(groups[2])
		page.Version = groups[3]
	}

	if page.Viewable {
		page.HTML, err = rawHTML(articleText)
		if err != nil {
			span.RecordError(err)
			return ContentPage{}, err
		}
		page.Files, err = parseAttachments(c.core.BaseUrl, doc.Selection)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse page attachments")
			return ContentPage{}, err
		}
	}

	return page, nil
}

func parsePublishWindow(limitView string) (start, end *time.Time, err error) {
	limitView = strings.TrimSpace(limitView)

	if groups := publishBothRegex.FindStringSubmatch(limitView); groups != nil {
		start, err = ParseDateTime(groups[1])
		if err != nil {
			return nil, nil, err
		}
		end, err = ParseDateTime(groups[2])
		if err != nil {
			return nil, nil, err
		}
		return start, end, nil
	}
	if groups := publishStartRegex.FindStringSubmatch(limitView); groups != nil {
		start, err = ParseDateTime(groups[1])
		return start, nil, err
	}
	if groups := publishEndRegex.FindStringSubmatch(limitView); groups != nil {
		end, err = ParseDateTime(groups[1])
		return nil, end, err
	}
	return nil, nil, nil
}
