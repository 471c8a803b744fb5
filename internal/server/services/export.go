package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dmitrijs2005/freezeraudit/internal/common"
	sc "github.com/dmitrijs2005/freezeraudit/internal/server/config"
	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
	"github.com/dmitrijs2005/freezeraudit/internal/server/repositories/repomanager"
)

const exportDateLayout = "2006-01-02"

var exportHeader = []string{"title", "amount", "location", "category", "notes", "needsMore", "updatedAt"}

// ExportCSV writes items as CSV with a header row.
func ExportCSV(items []*models.Item, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, item := range items {
		notes := ""
		if item.Notes != nil {
			notes = *item.Notes
		}
		record := []string{
			item.Title,
			item.Amount,
			item.Location,
			item.Category,
			notes,
			strconv.FormatBool(item.NeedsMore),
			item.UpdatedAt.Format(exportDateLayout),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFileName is the attachment name for an export taken at t.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("freezer-audit-%s.csv", t.Format(exportDateLayout))
}

// ExportService produces CSV exports of a user's items, either streamed to
// the caller or archived in object storage.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	archive     *ArchiveStore
	now         func() time.Time
}

func NewExportService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *ExportService {
	return &ExportService{db: db, repomanager: m, archive: NewArchiveStore(cfg), now: time.Now}
}

// FileName is the attachment name for an export taken now.
func (s *ExportService) FileName() string {
	return ExportFileName(s.now())
}

func (s *ExportService) WriteCSV(ctx context.Context, ownerID string, w io.Writer) error {
	items, err := s.repomanager.Items(s.db).List(ctx, ownerID)
	if err != nil {
		return err
	}
	return ExportCSV(items, w)
}

// Archive uploads the owner's CSV export and returns a presigned download URL.
// It fails with common.ErrorStorageDisabled when no bucket is configured.
func (s *ExportService) Archive(ctx context.Context, ownerID string) (string, error) {
	if !s.archive.Enabled() {
		return "", common.ErrorStorageDisabled
	}

	var buf bytes.Buffer
	if err := s.WriteCSV(ctx, ownerID, &buf); err != nil {
		return "", err
	}

	key := ArchiveKey(ownerID, s.now())
	if err := s.archive.Put(ctx, key, buf.Bytes()); err != nil {
		return "", err
	}
	return s.archive.PresignedURL(ctx, key)
}
