package fetcher

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Materialize resolves a document source to a local file path. Local paths
// pass through after an existence check; http(s):// and ftp:// sources are
// downloaded into dir, keeping the remote base name.
func Materialize(ctx context.Context, source, dir string, httpF, ftpF Fetcher) (string, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return download(ctx, httpF, source, dir)
	case strings.HasPrefix(source, "ftp://"):
		return download(ctx, ftpF, source, dir)
	default:
		if _, err := os.Stat(source); err != nil {
			return "", eris.Wrapf(err, "fetch: source %s", source)
		}
		return source, nil
	}
}

func download(ctx context.Context, f Fetcher, source, dir string) (string, error) {
	if f == nil {
		return "", eris.Errorf("fetch: no fetcher configured for %s", source)
	}
	u, err := url.Parse(source)
	if err != nil {
		return "", eris.Wrapf(err, "fetch: parse source %s", source)
	}
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "document"
	}
	dest := filepath.Join(dir, name)

	n, err := f.DownloadToFile(ctx, source, dest)
	if err != nil {
		return "", err
	}
	zap.L().Info("fetch: document downloaded",
		zap.String("source", source),
		zap.String("dest", dest),
		zap.Int64("bytes", n),
	)
	return dest, nil
}
