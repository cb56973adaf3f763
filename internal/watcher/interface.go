package watcher

import (
	"context"

	"github.com/nguyentantai21042004/newsreel/internal/models"
)

// Watcher defines the interface for inbox monitoring
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is a function that handles one request file
type EventHandler func(ctx context.Context, filePath string) error

// Producer is the part of the processor the inbox drives.
type Producer interface {
	Produce(ctx context.Context, ref models.ContentReference) (models.Production, error)
}
