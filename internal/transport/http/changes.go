package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"contractor_site/internal/domain/access"
	"contractor_site/internal/lib/logger/sl"
	"contractor_site/internal/middleware"
	"contractor_site/internal/services/changefeed"
	"contractor_site/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

const keepAliveInterval = 25 * time.Second

// tableTabs lists tables that only sessions with the tab may watch.
var tableTabs = map[string]access.Tab{
	changefeed.TableLeads:     access.TabLeads,
	changefeed.TableUserRoles: access.TabUsers,
}

// StreamChanges godoc
// @Summary Live change events
// @Description Server-sent events for the listed tables until the client disconnects. leads and user_roles need the matching admin tab.
// @Tags changes
// @Produce text/event-stream
// @Param tables query string false "Comma separated tables" default(gallery_projects,gallery_project_images,blog_posts)
// @Success 200 {string} string "event stream"
// @Failure 403 {object} response.ErrorResponse
// @Router /api/v1/changes [get]
func (r *Routers) StreamChanges(c echo.Context) error {
	const op = "http.routers.StreamChanges"

	log := r.log.With(slog.String("op", op))

	tables := splitTables(c.QueryParam("tables"))
	if len(tables) == 0 {
		tables = []string{changefeed.TableGalleryProjects, changefeed.TableGalleryImages, changefeed.TableBlogPosts}
	}

	sess := middleware.GetSession(c)
	for _, t := range tables {
		if !slices.Contains(changefeed.WatchableTables(), t) {
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_table", t))
		}
		if tab, guarded := tableTabs[t]; guarded && !sess.Can(tab) {
			return c.JSON(http.StatusForbidden, response.ErrorResponseWithDetails("forbidden", "cannot watch "+t))
		}
	}

	ctx := c.Request().Context()

	changes, err := r.Changes.Subscribe(ctx, tables...)
	if err != nil {
		return r.fail(c, log, err)
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	log.Debug("change stream opened", slog.Any("tables", tables))

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			data, err := json.Marshal(change)
			if err != nil {
				log.Warn("failed to encode change", sl.Err(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", data); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

func splitTables(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
