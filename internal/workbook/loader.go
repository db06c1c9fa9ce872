package workbook

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/logging"
	"fleetops/dashboard/internal/metrics"
	"fleetops/dashboard/internal/models"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Loader parses workbooks and memoizes the result by content hash.
type Loader struct {
	memo    gcache.Cache
	group   singleflight.Group
	metrics *metrics.MetricsRegistry
}

func NewLoader(memoSize int, m *metrics.MetricsRegistry) *Loader {
	return &Loader{
		memo:    gcache.New(memoSize).LRU().Build(),
		metrics: m,
	}
}

// Load returns the dataset for data. Identical bytes are parsed once; concurrent
// loads of the same content share a single parse.
func (l *Loader) Load(ctx context.Context, name string, data []byte) (*models.Dataset, error) {
	hash := common.HashBytes(data)
	key := readerKind(name) + ":" + hash

	if v, err := l.memo.Get(key); err == nil {
		l.metrics.CacheHit("workbook")
		return renamed(v.(*models.Dataset), name), nil
	}
	l.metrics.CacheMiss("workbook")

	v, err, _ := l.group.Do(key, func() (interface{}, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		ds, err := Parse(name, data)
		if err != nil {
			l.metrics.WorkbookLoaded("error")
			logging.Warn("Workbook load failed", "file", name, "error", err.Error())
			return nil, err
		}
		ds.Hash = hash
		ds.LoadedAt = time.Now().UTC()

		if err := l.memo.Set(key, ds); err != nil {
			logging.Warn("Workbook memo set failed", "error", err.Error())
		}
		l.metrics.WorkbookLoaded("ok")
		logging.Info("Workbook parsed",
			"file", name,
			"hash", hash,
			"trips", len(ds.Trips),
			"maintenance", len(ds.Maintenance),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return renamed(v.(*models.Dataset), name), nil
}

// Forget drops a memoized dataset.
func (l *Loader) Forget(name, hash string) {
	l.memo.Remove(readerKind(name) + ":" + hash)
}

func readerKind(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".xls") {
		return "xls"
	}
	return "xlsx"
}

// renamed shares the immutable tables but reports the caller's file name.
func renamed(ds *models.Dataset, name string) *models.Dataset {
	if ds.FileName == name {
		return ds
	}
	cp := *ds
	cp.FileName = name
	return &cp
}
