package visual

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/newsreel/internal/faults"
	"github.com/nguyentantai21042004/newsreel/internal/models"
	"github.com/nguyentantai21042004/newsreel/internal/retry"
	"github.com/nguyentantai21042004/newsreel/internal/workspace"
)

const maxImageBytes = 32 << 20

// Compose downloads the pictures needed for target, renders them as a
// slideshow and returns the video path. Downloaded pictures and the concat
// list are removed before returning, whatever the outcome.
func (c *Composer) Compose(ctx context.Context, files workspace.Allocator, material models.Material, target time.Duration) (string, error) {
	if c.tool == nil {
		return "", faults.Detail(faults.ErrNoProvider, "no slideshow tool configured", nil)
	}

	urls := SelectImages(material.Images, target)
	if len(urls) == 0 {
		return "", faults.Detail(faults.ErrImage, "no pics to compose", nil)
	}
	c.logger.Info(ctx, "Composing %d slides for %s", len(urls), target)

	saved := make(map[string]string, len(urls))
	defer func() {
		for _, p := range saved {
			files.Remove(ctx, p)
		}
	}()

	pics := make([]string, 0, len(urls))
	for _, u := range urls {
		p, ok := saved[u]
		if !ok {
			var err error
			p, err = c.download(ctx, files, u)
			if err != nil {
				return "", err
			}
			saved[u] = p
		}
		pics = append(pics, p)
	}

	listPath, err := c.writeFileList(files, pics)
	if err != nil {
		return "", err
	}
	defer files.Remove(ctx, listPath)

	output, err := files.NewFile("mp4")
	if err != nil {
		return "", faults.Detail(faults.ErrIO, "allocate video file", err)
	}
	if err := c.tool.ComposeImages(ctx, listPath, output); err != nil {
		files.Remove(ctx, output)
		return "", fmt.Errorf("compose slideshow: %w", err)
	}

	c.logger.Info(ctx, "Slideshow rendered: %s", output)
	return output, nil
}

// download fetches one picture into the workspace, naming it after the
// subtype of its Content-Type.
func (c *Composer) download(ctx context.Context, files workspace.Allocator, url string) (string, error) {
	var (
		data []byte
		ext  string
	)
	err := retry.Do(ctx, c.policy, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return retry.Permanent(faults.Detail(faults.ErrImage, "bad picture url "+url, err))
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return faults.Detail(faults.ErrNetwork, "download "+url, err)
		}
		if err := retry.CheckResponse(resp); err != nil {
			return faults.Detail(faults.ErrNetwork, "download "+url, err)
		}
		defer resp.Body.Close()

		ext, err = imageExtension(resp.Header.Get("Content-Type"))
		if err != nil {
			return retry.Permanent(faults.Detail(faults.ErrImage, url, err))
		}
		data, err = io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
		if err != nil {
			return faults.Detail(faults.ErrNetwork, "read "+url, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	path, err := files.NewFile(ext)
	if err != nil {
		return "", faults.Detail(faults.ErrIO, "allocate picture file", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		files.Remove(ctx, path)
		return "", faults.Detail(faults.ErrIO, "write picture", err)
	}
	return path, nil
}

// writeFileList writes an ffmpeg concat list showing every picture for
// SlideDuration. The first picture is appended once more with zero duration
// so the last real slide keeps its full length.
func (c *Composer) writeFileList(files workspace.Allocator, pics []string) (string, error) {
	if len(pics) == 0 {
		return "", faults.Detail(faults.ErrImage, "no pics to compose", nil)
	}

	seconds := int(SlideDuration / time.Second)
	var b strings.Builder
	for _, p := range pics {
		fmt.Fprintf(&b, "file '%s'\nduration %d\n\n", filepath.Base(p), seconds)
	}
	fmt.Fprintf(&b, "file '%s'\nduration 0\n\n", filepath.Base(pics[0]))

	path, err := files.NewFile("txt")
	if err != nil {
		return "", faults.Detail(faults.ErrIO, "allocate file list", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		_ = os.Remove(path)
		return "", faults.Detail(faults.ErrIO, "write file list", err)
	}
	return path, nil
}

func imageExtension(contentType string) (string, error) {
	if strings.TrimSpace(contentType) == "" {
		return "", fmt.Errorf("cannot find image format")
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("malformed content-type %q: %w", contentType, err)
	}
	kind, sub, ok := strings.Cut(mediaType, "/")
	if !ok || sub == "" {
		return "", fmt.Errorf("malformed content-type %q", contentType)
	}
	if kind != "image" {
		return "", fmt.Errorf("content-type %q is not an image", contentType)
	}
	if i := strings.IndexByte(sub, '+'); i > 0 {
		sub = sub[:i]
	}
	return sub, nil
}
