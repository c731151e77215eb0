package main

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tariff-cli/internal/fetcher"
)

var (
	fetchURL   string
	fetchOut   string
	fetchForce bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the reference workbook from an HTTP(S) or FTP URL",
	Long:  "Downloads the workbook to the configured path. HTTP(S) downloads are conditional: the last ETag is kept in a sidecar file next to the workbook and an unchanged upstream copy is not re-downloaded.",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := fetchURL
		if url == "" {
			url = cfg.Fetch.URL
		}
		if url == "" {
			if err := cfg.Validate("fetch"); err != nil {
				return err
			}
		}

		out := fetchOut
		if out == "" {
			out = cfg.Workbook.Path
		}

		f, err := fetcher.ForURL(url, fetcher.HTTPOptions{
			UserAgent:         cfg.Fetch.UserAgent,
			Timeout:           time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries:        cfg.Fetch.MaxRetries,
			RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
		})
		if err != nil {
			return err
		}

		n, changed, err := downloadWorkbook(cmd.Context(), f, url, out, fetchForce)
		if err != nil {
			return err
		}
		if !changed {
			zap.L().Info("workbook unchanged upstream, keeping local copy",
				zap.String("url", url),
				zap.String("path", out),
			)
			return nil
		}

		zap.L().Info("workbook downloaded",
			zap.String("url", url),
			zap.String("path", out),
			zap.Int64("bytes", n),
		)
		return nil
	},
}

// etagPath is the sidecar file that remembers the last ETag seen for out.
func etagPath(out string) string {
	return out + ".etag"
}

// downloadWorkbook writes the workbook at url to out. HTTP fetchers go
// through a conditional GET keyed on the sidecar ETag; a 304 leaves the
// existing file alone and reports changed=false. FTP has no conditional
// request, so it always downloads.
func downloadWorkbook(ctx context.Context, f fetcher.Fetcher, url, out string, force bool) (int64, bool, error) {
	hf, ok := f.(*fetcher.HTTPFetcher)
	if !ok {
		n, err := f.DownloadToFile(ctx, url, out)
		return n, err == nil, err
	}

	var etag string
	if !force {
		if data, err := os.ReadFile(etagPath(out)); err == nil {
			// Only trust the sidecar while the workbook itself is present.
			if _, err := os.Stat(out); err == nil {
				etag = strings.TrimSpace(string(data))
			}
		}
	}

	body, newETag, changed, err := hf.DownloadIfChanged(ctx, url, etag)
	if err != nil {
		return 0, false, err
	}
	if !changed {
		return 0, false, nil
	}
	defer body.Close() //nolint:errcheck

	file, err := os.Create(out)
	if err != nil {
		return 0, false, eris.Wrap(err, "create file")
	}
	defer file.Close() //nolint:errcheck

	n, err := io.Copy(file, body)
	if err != nil {
		return n, false, eris.Wrap(err, "write file")
	}

	if newETag != "" {
		if err := os.WriteFile(etagPath(out), []byte(newETag), 0644); err != nil {
			zap.L().Warn("could not persist workbook etag", zap.Error(err))
		}
	} else {
		_ = os.Remove(etagPath(out))
	}
	return n, true, nil
}

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "workbook URL (default from config)")
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "destination path (default: configured workbook path)")
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "download even when the upstream ETag is unchanged")
	rootCmd.AddCommand(fetchCmd)
}
