package watcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nguyentantai21042004/newsreel/internal/logger"
	"github.com/nguyentantai21042004/newsreel/internal/models"
)

// FailedSuffix is appended to request files whose production failed.
const FailedSuffix = ".failed"

// DecodeRequest reads one request file: a JSON encoded ContentReference.
func DecodeRequest(path string) (models.ContentReference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ContentReference{}, fmt.Errorf("read request: %w", err)
	}

	var ref models.ContentReference
	if err := json.Unmarshal(data, &ref); err != nil {
		return models.ContentReference{}, fmt.Errorf("decode request: %w", err)
	}
	ref.Source = strings.TrimSpace(ref.Source)
	ref.URL = strings.TrimSpace(ref.URL)
	if ref.Source == "" {
		return models.ContentReference{}, errors.New("request has no source")
	}
	if ref.URL == "" {
		return models.ContentReference{}, errors.New("request has no url")
	}
	return ref, nil
}

// RequestHandler produces the reference in each request file. Handled
// requests are removed; failed ones are renamed with FailedSuffix so they
// are not picked up again.
func RequestHandler(p Producer, log logger.Logger) EventHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(ctx context.Context, path string) error {
		ref, err := DecodeRequest(path)
		if err == nil {
			var prod models.Production
			prod, err = p.Produce(ctx, ref)
			if err == nil {
				log.Info(ctx, "[DONE] %s -> %s", path, prod.Path)
				if rmErr := os.Remove(path); rmErr != nil {
					log.Warn(ctx, "Failed to remove request %s: %v", path, rmErr)
				}
				return nil
			}
		}

		if mvErr := os.Rename(path, path+FailedSuffix); mvErr != nil {
			log.Warn(ctx, "Failed to mark request %s as failed: %v", path, mvErr)
		}
		return fmt.Errorf("%s: %w", path, err)
	}
}
