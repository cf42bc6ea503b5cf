// Package changefeed broadcasts row changes over redis pub/sub so caches and
// open browser views can refresh after admin edits.
package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"contractor_site/internal/lib/logger/sl"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const ChannelPrefix = "changes:"

const (
	TableGalleryProjects = "gallery_projects"
	TableGalleryImages   = "gallery_project_images"
	TableBlogPosts       = "blog_posts"
	TableLeads           = "leads"
	TableUserRoles       = "user_roles"
)

const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// WatchableTables are the relations a client may subscribe to.
func WatchableTables() []string {
	return []string{TableGalleryProjects, TableGalleryImages, TableBlogPosts, TableLeads, TableUserRoles}
}

type Change struct {
	Table string    `json:"table"`
	Op    string    `json:"op"`
	ID    uuid.UUID `json:"id,omitempty"`
	At    time.Time `json:"at"`
}

func Channel(table string) string {
	return ChannelPrefix + table
}

type Feed struct {
	log *slog.Logger
	rdb redis.UniversalClient
}

func New(log *slog.Logger, rdb redis.UniversalClient) *Feed {
	return &Feed{log: log, rdb: rdb}
}

func (f *Feed) Publish(ctx context.Context, c Change) error {
	const op = "changefeed.Feed.Publish"

	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := f.rdb.Publish(ctx, Channel(c.Table), payload).Err(); err != nil {
		f.log.Warn("failed to publish change",
			slog.String("op", op),
			slog.String("table", c.Table),
			sl.Err(err),
		)
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Subscribe streams changes to tables until ctx ends, then unsubscribes and
// closes the returned channel.
func (f *Feed) Subscribe(ctx context.Context, tables ...string) (<-chan Change, error) {
	const op = "changefeed.Feed.Subscribe"

	if len(tables) == 0 {
		tables = WatchableTables()
	}

	channels := make([]string, len(tables))
	for i, t := range tables {
		channels[i] = Channel(t)
	}

	ps := f.rdb.Subscribe(ctx, channels...)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make(chan Change, 16)

	go func() {
		defer close(out)
		defer ps.Close()

		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var c Change
				if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
					f.log.Warn("dropping malformed change",
						slog.String("op", op),
						slog.String("channel", msg.Channel),
						sl.Err(err),
					)
					continue
				}

				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
