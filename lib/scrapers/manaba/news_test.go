package manaba

import (
	"testing"
	"time"

	"manaba-go/lib/timezone"

	"github.com/stretchr/testify/require"
)

func TestParseLastModified(t *testing.T) {
	t.Run("absent box", func(t *testing.T) {
		doc := docFromString(t, `<div class="msg-text">本文</div>`)
		var news CourseNews
		require.NoError(t, parseLastModified(doc.Find("div.msg-lastmod").First(), &news))
		require.Empty(t, news.LastEditedBy)
		require.Nil(t, news.LastEditedAt)
	})

	t.Run("editor as anchor", func(t *testing.T) {
		doc := docFromString(t, `
			<div class="msg-lastmod">最終更新
				<a onclick="return manaba.userballoon('97279', event);" href="user_97279_profile">中山　智美</a>
				2021-08-04  10:25
			</div>`)
		var news CourseNews
		require.NoError(t, parseLastModified(doc.Find("div.msg-lastmod").First(), &news))
		require.Equal(t, "中山　智美", news.LastEditedBy)
		require.NotNil(t, news.LastEditedAt)
		require.Equal(t, time.Date(2021, 8, 4, 10, 25, 0, 0, timezone.JST), *news.LastEditedAt)
	})

	t.Run("editor as flat text", func(t *testing.T) {
		doc := docFromString(t, `<div class="msg-lastmod"><span>最終更新 中山　智美 2021-08-04  10:25</span></div>`)
		var news CourseNews
		require.NoError(t, parseLastModified(doc.Find("div.msg-lastmod").First(), &news))
		require.Equal(t, "中山　智美", news.LastEditedBy)
		require.NotNil(t, news.LastEditedAt)
		require.Equal(t, time.Date(2021, 8, 4, 10, 25, 0, 0, timezone.JST), *news.LastEditedAt)
	})
}
