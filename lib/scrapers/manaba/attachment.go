package manaba

import (
	"fmt"
	"net/url"
	"regexp"
	"time"

	"manaba-go/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// An inline attachment block holds one anchor whose text is either
// "<filename> - <YYYY-MM-DD HH:MM:SS>" or just "<filename>". The split
// happens on the last " - <timestamp>" occurrence so filenames containing
// " - " survive.
var attachmentTextRegex = regexp.MustCompile(`^(.+?) - ([0-9]{4}-[0-9]{2}-[0-9]{2} [0-9]{2}:[0-9]{2}:[0-9]{2})$`)

func parseAttachmentText(text string) (name string, uploadedAt *time.Time, err error) {
	text = htmlutil.CleanText(text)
	groups := attachmentTextRegex.FindStringSubmatch(text)
	if groups == nil {
		return text, nil, nil
	}
	uploadedAt, err = ParseDateTime(groups[2])
	if err != nil {
		return "", nil, err
	}
	return htmlutil.CleanText(groups[1]), uploadedAt, nil
}

// parseAttachments walks every div.inlineattachment under sel and builds
// the file list. Download hrefs are relative to the fixed /ct/ base.
func parseAttachments(baseUrl *url.URL, sel *goquery.Selection) ([]File, error) {
	ctBase := *baseUrl
	ctBase.Path = "/ct/"

	var files []File
	var walkErr error
	sel.Find("div.inlineattachment").EachWithBreak(func(_ int, block *goquery.Selection) bool {
		anchor := block.Find("div.inlineaf-description a").First()
		if anchor.Length() == 0 {
			walkErr = fmt.Errorf("inline attachment without anchor: %w", ErrMalformedPage)
			return false
		}

		name, uploadedAt, err := parseAttachmentText(anchor.Text())
		if err != nil {
			walkErr = err
			return false
		}

		href, err := url.Parse(anchor.AttrOr("href", ""))
		if err != nil {
			walkErr = fmt.Errorf("invalid attachment href: %w", ErrMalformedPage)
			return false
		}

		files = append(files, File{
			Name:       name,
			UploadedAt: uploadedAt,
			URL:        ctBase.ResolveReference(href).String(),
		})
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return files, nil
}
