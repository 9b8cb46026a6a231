package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BatchNumber renders <prefix><YYYYMMDD><4-digit daily sequence>,
// e.g. PB202501010007.
func BatchNumber(prefix string, day time.Time, seq int64) string {
	return fmt.Sprintf("%s%s%04d", prefix, day.Format("20060102"), seq)
}

// SerialNumber renders <org-prefix>-<batch number>-<3-digit sequence>.
// Sequences beyond 999 widen naturally.
func SerialNumber(orgPrefix, batchNumber string, seq int64) string {
	return fmt.Sprintf("%s-%s-%03d", orgPrefix, batchNumber, seq)
}

func batchNumberScope(prefix string, day time.Time) string {
	return "batch:" + prefix + day.Format("20060102")
}

// serialScope is per batch, not per product: serials carry only the batch
// number, so two products of one batch must not share a sequence value.
func serialScope(batchID uuid.UUID) string {
	return "serial:" + batchID.String()
}
