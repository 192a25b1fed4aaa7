package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const fetchTimeout = 5 * time.Minute

// Fetcher downloads the national address CSV archives listed on the dataset
// index page into the local dataset directory.
type Fetcher struct {
	indexURL string
	destDir  string
	client   *http.Client
	logger   *slog.Logger
}

// NewFetcher creates a new dataset fetcher instance
func NewFetcher(indexURL, destDir string, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		indexURL: indexURL,
		destDir:  destDir,
		client:   &http.Client{Timeout: fetchTimeout},
		logger:   logger,
	}
}

// FetchReport summarizes a fetch run.
type FetchReport struct {
	Listed     int
	Downloaded int
	Skipped    int
}

// Fetch lists every .csv.gz link on the index page and downloads the ones not
// already present on disk. Existing files are never re-downloaded.
func (f *Fetcher) Fetch(ctx context.Context) (FetchReport, error) {
	report := FetchReport{}

	links, err := f.listArchives(ctx)
	if err != nil {
		return report, err
	}
	report.Listed = len(links)

	if err := os.MkdirAll(f.destDir, 0o755); err != nil {
		return report, fmt.Errorf("create dataset directory: %w", err)
	}

	for _, link := range links {
		name := filepath.Base(link)
		dest := filepath.Join(f.destDir, name)

		if _, err := os.Stat(dest); err == nil {
			report.Skipped++
			continue
		}

		if err := f.download(ctx, link, dest); err != nil {
			f.logger.Error("❌ [Fetcher] Download failed", "file", name, "error", err)
			return report, err
		}
		report.Downloaded++
		f.logger.Info("📥 [Fetcher] Downloaded dataset", "file", name)
	}

	return report, nil
}

// listArchives parses the index page and returns absolute URLs of every
// .csv.gz link found.
func (f *Fetcher) listArchives(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.indexURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataset index returned status %d", resp.StatusCode)
	}

	base, err := url.Parse(f.indexURL)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse dataset index: %w", err)
	}

	var links []string
	seen := make(map[string]struct{})

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" || !strings.HasSuffix(attr.Val, ".csv.gz") {
					continue
				}
				ref, err := url.Parse(attr.Val)
				if err != nil {
					continue
				}
				abs := base.ResolveReference(ref).String()
				if _, dup := seen[abs]; !dup {
					seen[abs] = struct{}{}
					links = append(links, abs)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// download writes the archive to a temp file first so a partial download
// never masquerades as a complete dataset.
func (f *Fetcher) download(ctx context.Context, link, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(f.destDir, ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), dest)
}
