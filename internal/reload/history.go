package reload

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ofirwie/qlikfox/internal/model"
)

const (
	// maxHistoryLimit caps one page; the backend rejects larger limits.
	maxHistoryLimit     = 100
	defaultHistoryLimit = 50
	// maxEnrichApps bounds app-detail enrichment per page: at most this
	// many unique apps, fetched concurrently.
	maxEnrichApps = 50
)

// History answers paged history queries. The backend exposes no total-count
// endpoint, so continuation is inferred from page fullness: a full last
// page is indistinguishable from "more available" until the next fetch
// comes back empty.
type History struct {
	adapter BackendAdapter
	logger  *slog.Logger
}

func NewHistory(adapter BackendAdapter, logger *slog.Logger) *History {
	return &History{adapter: adapter, logger: logger}
}

// TenantPage serves one page of tenant-wide history. On backends without a
// tenant-wide listing the page is empty and carries an explanatory note.
func (h *History) TenantPage(ctx context.Context, q model.HistoryQuery) (*model.HistoryPage, error) {
	if q.Limit <= 0 {
		q.Limit = defaultHistoryLimit
	}
	if q.Limit > maxHistoryLimit {
		q.Limit = maxHistoryLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	items, note, err := h.adapter.ListReloads(ctx, q)
	if err != nil {
		return nil, err
	}

	page := &model.HistoryPage{
		Items:    items,
		Limit:    q.Limit,
		Offset:   q.Offset,
		Returned: len(items),
		Note:     note,
	}
	page.HasMore = len(items) == q.Limit
	// An approximation, not authoritative: with HasMore true all that is
	// known is that at least one more row exists.
	page.EstimatedTotal = q.Offset + len(items)
	if page.HasMore {
		page.EstimatedTotal++
	}

	// The reload record carries no space; a space filter needs enrichment
	// to resolve one per app first.
	if (q.IncludeDetails || q.SpaceID != "") && len(page.Items) > 0 {
		h.enrich(ctx, page.Items)
	}
	if q.SpaceID != "" {
		kept := page.Items[:0]
		for _, item := range page.Items {
			if item.SpaceID == q.SpaceID {
				kept = append(kept, item)
			}
		}
		// HasMore and EstimatedTotal keep describing the unfiltered stream,
		// which is what Offset indexes into.
		page.Items = kept
		page.Returned = len(kept)
	}
	return page, nil
}

// AppPage serves one page of a single app's history, with the same
// continuation heuristic.
func (h *History) AppPage(ctx context.Context, appID string, limit int, includeDetails bool) (*model.HistoryPage, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	items, err := h.adapter.GetAppHistory(ctx, appID, limit)
	if err != nil {
		return nil, err
	}
	page := &model.HistoryPage{
		Items:          items,
		Limit:          limit,
		Returned:       len(items),
		HasMore:        len(items) == limit,
		EstimatedTotal: len(items),
	}
	if page.HasMore {
		page.EstimatedTotal++
	}
	if includeDetails && len(page.Items) > 0 {
		h.enrich(ctx, page.Items)
	}
	return page, nil
}

// enrich resolves app names and spaces for the page. Fetches run
// concurrently; a failing fetch (a deleted app, typically) degrades to a
// placeholder record so one bad app never aborts the page.
func (h *History) enrich(ctx context.Context, items []model.ReloadTask) {
	seen := make(map[string]bool)
	var ids []string
	for i := range items {
		id := items[i].AppID
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
		if len(ids) >= maxEnrichApps {
			break
		}
	}

	infos := make(map[string]*model.AppInfo, len(ids))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxEnrichApps)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			info, err := h.adapter.GetAppInfo(gctx, id)
			if err != nil {
				h.logger.Warn("app enrichment failed", "appId", id, "error", err)
				info = &model.AppInfo{ID: id, Name: "[Deleted App]", Deleted: true}
			}
			mu.Lock()
			infos[id] = info
			mu.Unlock()
			return nil
		})
	}
	// Goroutines never return errors; failures became placeholders above.
	_ = g.Wait()

	for i := range items {
		info, ok := infos[items[i].AppID]
		if !ok {
			continue
		}
		items[i].AppName = info.Name
		if info.SpaceID != "" {
			items[i].SpaceID = info.SpaceID
		}
		if info.SpaceName != "" {
			items[i].SpaceName = info.SpaceName
		}
	}
}
