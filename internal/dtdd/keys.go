package dtdd

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Cache keys are namespaced per request kind so a title that happens to look
// like an identifier can never collide with an id lookup.

func searchKey(query string) string {
	folded := cases.Fold().String(query)
	return "search:" + strings.Join(strings.Fields(folded), "_")
}

func imdbKey(imdbID string) string {
	return "imdb:" + strings.TrimSpace(imdbID)
}

func mediaKey(id int64) string {
	return "media:" + strconv.FormatInt(id, 10)
}
