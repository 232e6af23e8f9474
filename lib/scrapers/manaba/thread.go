package manaba

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"manaba-go/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

var threadIDRegex = regexp.MustCompile(`course_[0-9]+_topics_([0-9]+)_.+`)

// Threads lists the discussion threads of a course. The list page does
// not render comments; fetch them with Thread.
func (c Client) Threads(ctx context.Context, courseID int) ([]Thread, error) {
	ctx, span := tracer.Start(ctx, "client:Threads")
	defer span.End()

	doc, err := c.core.GetDoc(ctx, courseURL(courseID)+"_topics")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch thread list")
		return nil, err
	}

	stdList := doc.Find("table.stdlist").First()
	if stdList.Length() == 0 {
		return nil, nil
	}

	var threads []Thread
	var walkErr error
	stdList.Find("tr.row, tr.row0, tr.row1").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		threadID, err := idFromHref(threadIDRegex, tr.Find("a.threadhead").First().AttrOr("href", ""))
		if err != nil {
			walkErr = err
			return false
		}
		threads = append(threads, Thread{
			CourseID: courseID,
			ID:       threadID,
			Title:    htmlutil.CleanText(tr.Find("span.thread-title").First().Text()),
		})
		return true
	})
	if walkErr != nil {
		span.RecordError(walkErr)
		span.SetStatus(codes.Error, "failed to parse thread list")
		return nil, walkErr
	}
	return threads, nil
}

// Thread fetches a thread with its comments through the flat view
// endpoint. Comments come back in server order; the thread title
// mirrors the first comment's title, which is empty when that comment
// was deleted.
func (c Client) Thread(ctx context.Context, courseID, threadID int, opts PageOptions) (Thread, error) {
	ctx, span := tracer.Start(ctx, "client:Thread")
	defer span.End()

	path := fmt.Sprintf("%s_topics_%d_tflat%s", courseURL(courseID), threadID, opts.query())
	doc, err := c.core.GetDoc(ctx, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch thread")
		return Thread{}, err
	}

	var comments []ThreadComment
	var walkErr error
	doc.Find("div.articlecontainer").EachWithBreak(func(_ int, container *goquery.Selection) bool {
		comment, err := parseThreadComment(c.core.BaseUrl, courseID, threadID, container)
		if err != nil {
			walkErr = err
			return false
		}
		comments = append(comments, comment)
		return true
	})
	if walkErr != nil {
		span.RecordError(walkErr)
		span.SetStatus(codes.Error, "failed to parse thread comments")
		return Thread{}, walkErr
	}

	thread := Thread{
		CourseID: courseID,
		ID:       threadID,
		Comments: comments,
	}
	if len(comments) > 0 {
		thread.Title = comments[0].Title
	}
	return thread, nil
}

func parseThreadComment(baseUrl *url.URL, courseID, threadID int, container *goquery.Selection) (ThreadComment, error) {
	idText := strings.TrimSpace(container.Find("h3.articlenumber").First().Text())
	id, err := strconv.Atoi(idText)
	if err != nil {
		return ThreadComment{}, fmt.Errorf("comment number %q is not numeric: %w", idText, ErrMalformedPage)
	}

	comment := ThreadComment{
		CourseID: courseID,
		ThreadID: threadID,
		ID:       id,
		Title:    htmlutil.CleanText(container.Find("div.articlesubject").First().Text()),
		Deleted:  container.Find("div.articlecontainer-deleted").Length() > 0,
	}

	// The author either links to a profile or sits as a bare text node
	// right before the posted-time span. Deleted comments have neither.
	info := container.Find("div.articleinfo").First()
	postedTime := info.Find("span.posted-time").First()
	if postedTime.Length() > 0 {
		if info.Find(`a[href="#"]`).Length() > 0 {
			comment.Author = htmlutil.CleanText(info.Find("a").First().Text())
		} else if prev := postedTime.Nodes[0].PrevSibling; prev != nil {
			comment.Author = htmlutil.CleanText(htmlutil.GetText(prev))
		}
		comment.PostedAt, err = ParseDateTime(strings.TrimSpace(postedTime.Text()))
		if err != nil {
			return ThreadComment{}, err
		}
	}

	if parent := container.Find("div.parentmsg-no").First(); parent.Length() > 0 {
		parentText := strings.TrimSpace(parent.Text())
		replyTo, err := strconv.Atoi(parentText)
		if err != nil {
			return ThreadComment{}, fmt.Errorf("reply target %q is not numeric: %w", parentText, ErrMalformedPage)
		}
		comment.ReplyToID = &replyTo
	}

	if body := container.Find("div.articlebody-msgbody").First(); body.Length() > 0 {
		comment.HTML, err = rawHTML(body)
		if err != nil {
			return ThreadComment{}, err
		}
	}

	comment.Files, err = parseAttachments(baseUrl, container)
	if err != nil {
		return ThreadComment{}, err
	}
	return comment, nil
}
