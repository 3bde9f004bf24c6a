// Package storage archives dispatched digests and reports to an
// S3-compatible object store. The archive is an audit copy; delivery never
// depends on it.
package storage

import (
	"context"
	"time"

	"fintel/internal/model"
)

// Archive persists outbound rollup payloads as JSON objects. Save methods
// return the object key written.
type Archive interface {
	SaveDigest(ctx context.Context, digest *model.DigestReport) (string, error)
	SaveReport(ctx context.Context, report *model.ReportData, sentAt time.Time) (string, error)
}
