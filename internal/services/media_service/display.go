package services

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	supabaseObjectPath = "/storage/v1/object/public/"
	supabaseRenderPath = "/storage/v1/render/image/public/"
)

// Transform holds display hints for an image URL. Zero fields are omitted.
type Transform struct {
	Width   int
	Quality int
	Format  string
}

// DisplayURL returns src with width/quality/format hints applied. Supabase
// public object URLs are pointed at the image render endpoint; any other URL
// gets the hints as query parameters. With no hints src is returned as is.
func DisplayURL(src string, t Transform) string {
	if src == "" || t == (Transform{}) {
		return src
	}

	u, err := url.Parse(src)
	if err != nil {
		return src
	}

	if strings.Contains(u.Path, supabaseObjectPath) {
		u.Path = strings.Replace(u.Path, supabaseObjectPath, supabaseRenderPath, 1)
	}

	q := u.Query()
	if t.Width > 0 {
		q.Set("width", strconv.Itoa(t.Width))
	}
	if t.Quality != 0 {
		q.Set("quality", strconv.Itoa(clampQuality(t.Quality)))
	}
	if t.Format != "" {
		q.Set("format", t.Format)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

func clampQuality(q int) int {
	return max(1, min(100, q))
}
