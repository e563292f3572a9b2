// Package uploader transfers screener file answers from the client's local
// filesystem to blob storage, satisfying the engine's upload contract.
package uploader

import (
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/samuel/go-metrics/metrics"

	"github.com/junipermd/storefront/libs/clock"
	"github.com/junipermd/storefront/libs/errors"
	"github.com/junipermd/storefront/libs/golog"
	"github.com/junipermd/storefront/libs/screenerlib/engine"
	"github.com/junipermd/storefront/libs/storage"
)

const defaultURLExpiration = 24 * time.Hour

// Coordinator uploads picked files to a blob store and resolves them to
// expiring URLs. The contract is resolve or fail; a failed transfer leaves
// nothing behind for the caller to clean up.
type Coordinator struct {
	store         storage.Store
	clk           clock.Clock
	urlExpiration time.Duration

	statRequests  *metrics.Counter
	statFailures  *metrics.Counter
	statLatencyMS metrics.Histogram
}

// New returns a Coordinator backed by the given store. Metrics are
// registered under uploads.*.
func New(store storage.Store, metricsRegistry metrics.Registry) *Coordinator {
	c := &Coordinator{
		store:         store,
		clk:           clock.New(),
		urlExpiration: defaultURLExpiration,
		statRequests:  metrics.NewCounter(),
		statFailures:  metrics.NewCounter(),
		statLatencyMS: metrics.NewUnbiasedHistogram(),
	}
	if metricsRegistry != nil {
		metricsRegistry.Add("uploads.requests", c.statRequests)
		metricsRegistry.Add("uploads.failures", c.statFailures)
		metricsRegistry.Add("uploads.latency_ms", c.statLatencyMS)
	}
	return c
}

// Upload reads the local file and writes it to the store under the folder
// prefix, reporting transfer progress as a 0-100 percentage. The returned
// URL is an expiring link to the stored object.
func (c *Coordinator) Upload(localRef, filename, contentType, folderPrefix string, progress func(pct int)) (*engine.UploadResult, error) {
	c.statRequests.Inc(1)
	st := c.clk.Now()

	res, err := c.upload(localRef, filename, contentType, folderPrefix, progress)
	if err != nil {
		c.statFailures.Inc(1)
		golog.Errorf("uploader: %s failed: %s", localRef, err)
		return nil, errors.Trace(err)
	}

	c.statLatencyMS.Update(c.clk.Now().Sub(st).Nanoseconds() / 1e6)
	return res, nil
}

func (c *Coordinator) upload(localRef, filename, contentType, folderPrefix string, progress func(pct int)) (*engine.UploadResult, error) {
	f, err := os.Open(localRef)
	if err != nil {
		return nil, errors.Annotatef(err, "open %q", localRef)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Trace(err)
	}

	if progress != nil {
		progress(0)
	}
	r := &progressReader{r: f, size: fi.Size(), progress: progress}

	name := path.Join(folderPrefix, fmt.Sprintf("%d-%s", c.clk.Now().UnixNano(), filename))
	id, err := c.store.PutReader(name, r, fi.Size(), contentType, nil)
	if err != nil {
		return nil, errors.Annotatef(err, "put %q", name)
	}
	if progress != nil {
		progress(100)
	}

	url, err := c.store.ExpiringURL(id, c.urlExpiration)
	if err != nil {
		return nil, errors.Annotatef(err, "url for %q", id)
	}

	return &engine.UploadResult{
		URL:         url,
		Filename:    filename,
		ContentType: contentType,
	}, nil
}

// progressReader reports read progress through the wrapped ReadSeeker as a
// percentage of its total size, capped at 99 since a fully read stream may
// still fail to commit; 100 is reported only on a successful put. Seeks pass
// through so the transport can rewind and retry; progress simply tracks the
// new offset.
type progressReader struct {
	r        io.ReadSeeker
	size     int64
	offset   int64
	lastPct  int
	progress func(pct int)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	pr.offset += int64(n)
	pr.report()
	return n, err
}

func (pr *progressReader) Seek(offset int64, whence int) (int64, error) {
	off, err := pr.r.Seek(offset, whence)
	if err == nil {
		pr.offset = off
	}
	return off, err
}

func (pr *progressReader) report() {
	if pr.progress == nil || pr.size <= 0 {
		return
	}
	pct := int(pr.offset * 100 / pr.size)
	if pct > 99 {
		pct = 99
	}
	if pct != pr.lastPct {
		pr.lastPct = pct
		pr.progress(pct)
	}
}
