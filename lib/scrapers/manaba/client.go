// Package manaba extracts structured records out of manaba course pages.
// It never retries and never returns partial records: a page that does
// not match the expected structure fails with ErrMalformedPage so the
// caller can tell scraper rot apart from transport trouble.
package manaba

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"manaba-go/lib/scrapers/manaba/core"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/manaba")

// ErrMalformedPage means a page was fetched fine but its HTML did not
// match the structure this package knows how to read.
var ErrMalformedPage = errors.New("unexpected manaba page structure")

// Client wraps an authenticated core session with the entity extractors.
type Client struct {
	core *core.Client
}

func NewClient(coreClient *core.Client) Client {
	return Client{core: coreClient}
}

// PageOptions controls paginated endpoints (thread comments, news list).
// StartID counts back from the most recent entry, the way manaba itself
// does: with 50 comments, StartID 5 returns entry 45 and older. Zero
// values mean "everything".
type PageOptions struct {
	StartID int
	PageLen int
}

const defaultPageLen = 10000

func (o PageOptions) query() string {
	pageLen := o.PageLen
	if pageLen <= 0 {
		pageLen = defaultPageLen
	}
	q := fmt.Sprintf("?pagelen=%d", pageLen)
	if o.StartID > 0 {
		q += fmt.Sprintf("&start_id=%d", o.StartID)
	}
	return q
}

func courseURL(courseID int) string {
	return fmt.Sprintf("/ct/course_%d", courseID)
}

// rawHTML returns the outer HTML of sel with non-breaking spaces kept
// as entities. goquery decodes them to U+00A0 on parse, but callers
// that re-render or store the fragment expect the entity form manaba
// served.
func rawHTML(sel *goquery.Selection) (string, error) {
	h, err := goquery.OuterHtml(sel)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.ReplaceAll(h, "\u00a0", "&nbsp;")), nil
}

// idFromHref pulls the single capture group of pattern out of href and
// parses it as an integer entity id.
func idFromHref(pattern *regexp.Regexp, href string) (int, error) {
	groups := pattern.FindStringSubmatch(href)
	if groups == nil {
		return 0, fmt.Errorf("href %q does not carry an entity id: %w", href, ErrMalformedPage)
	}
	id, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, fmt.Errorf("href %q does not carry an entity id: %w", href, ErrMalformedPage)
	}
	return id, nil
}
