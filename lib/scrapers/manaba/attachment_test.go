package manaba

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"manaba-go/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestParseAttachmentText(t *testing.T) {
	t.Run("name and timestamp", func(t *testing.T) {
		name, uploadedAt, err := parseAttachmentText("第3回レジュメ.pdf - 2021-08-04 10:25:30")
		require.NoError(t, err)
		require.Equal(t, "第3回レジュメ.pdf", name)
		require.NotNil(t, uploadedAt)
		require.Equal(t, time.Date(2021, 8, 4, 10, 25, 30, 0, timezone.JST), *uploadedAt)
	})
	t.Run("hyphenated name splits on the timestamp only", func(t *testing.T) {
		name, uploadedAt, err := parseAttachmentText("report - final - 2021-08-04 10:25:30")
		require.NoError(t, err)
		require.Equal(t, "report - final", name)
		require.NotNil(t, uploadedAt)
	})
	t.Run("no timestamp", func(t *testing.T) {
		name, uploadedAt, err := parseAttachmentText("第3回レジュメ.pdf")
		require.NoError(t, err)
		require.Equal(t, "第3回レジュメ.pdf", name)
		require.Nil(t, uploadedAt)
	})
}

func TestParseAttachments(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div class="msg-text">
			<div class="inlineattachment">
				<div class="inlineaf-description">
					<a href="file_12345">配布資料.pdf - 2021-08-04 10:25:30</a>
				</div>
			</div>
			<div class="inlineattachment">
				<div class="inlineaf-description">
					<a href="file_12346">追加資料.pdf</a>
				</div>
			</div>
		</div>
	`))
	require.NoError(t, err)
	baseUrl, err := url.Parse("https://example.manaba.jp")
	require.NoError(t, err)

	files, err := parseAttachments(baseUrl, doc.Selection)
	require.NoError(t, err)
	require.Len(t, files, 2)

	require.Equal(t, "配布資料.pdf", files[0].Name)
	require.NotNil(t, files[0].UploadedAt)
	require.Equal(t, "https://example.manaba.jp/ct/file_12345", files[0].URL)

	require.Equal(t, "追加資料.pdf", files[1].Name)
	require.Nil(t, files[1].UploadedAt)
	require.Equal(t, "https://example.manaba.jp/ct/file_12346", files[1].URL)
}

func TestParseAttachmentsWithoutAnchor(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div class="inlineattachment"><div class="inlineaf-description"></div></div>
	`))
	require.NoError(t, err)
	baseUrl, err := url.Parse("https://example.manaba.jp")
	require.NoError(t, err)

	_, err = parseAttachments(baseUrl, doc.Selection)
	require.ErrorIs(t, err, ErrMalformedPage)
}
