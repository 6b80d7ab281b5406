package backend

import (
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/pbid"
)

// PreviewURL derives the preview route of a file on the backend behind conn.
func PreviewURL(conn Connection, bucketId string, fileId pbid.ID, opts PreviewOptions) (string, error) {
	if conn.IsZero() {
		return "", errors.Wrap(ErrInvalid, "a connection is required to derive preview urls")
	}

	q := url.Values{}
	q.Set("project", conn.ProjectID())
	if opts.Width > 0 {
		q.Set("width", strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		q.Set("height", strconv.Itoa(opts.Height))
	}
	if opts.Quality > 0 {
		q.Set("quality", strconv.Itoa(opts.Quality))
	}

	return conn.URL("storage", "buckets", bucketId, "files", fileId.String(), "preview") + "?" + q.Encode(), nil
}
