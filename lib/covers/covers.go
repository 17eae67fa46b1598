package covers

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-resty/resty/v2"

	"bookshelf-backend/lib/textutil"
)

// DefaultFolder is where cover images land unless the caller says
// otherwise.
const DefaultFolder = "book_covers"

var client = resty.New()

// Save downloads a cover image and writes it under folder, named after
// the sanitized title. It never fails: an empty url is answered with an
// empty path and no I/O at all, and any fetch or write failure is
// logged and absorbed. The bytes are written as-is, no re-encoding or
// format validation. On success the local path is returned.
func Save(ctx context.Context, imageUrl, title, folder string) string {
	ctx, span := tracer.Start(ctx, "Save")
	defer span.End()

	if imageUrl == "" {
		return ""
	}

	err := os.MkdirAll(folder, 0777)
	if err != nil {
		slog.WarnContext(ctx, "failed to create cover folder", "folder", folder, "err", err)
		return ""
	}

	path := filepath.Join(folder, textutil.SafeFilename(title)+".jpg")

	res, err := client.R().
		SetContext(ctx).
		Get(imageUrl)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch cover", "url", imageUrl, "err", err)
		return ""
	}
	if res.IsError() {
		slog.WarnContext(ctx, "cover fetch returned error status",
			"url", imageUrl,
			"status", res.StatusCode(),
		)
		return ""
	}

	err = os.WriteFile(path, res.Body(), 0666)
	if err != nil {
		slog.WarnContext(ctx, "failed to write cover", "path", path, "err", err)
		return ""
	}
	return path
}
