package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/celosave/savings/internal/model"
	"github.com/celosave/savings/internal/storage"
)

// Export is a JSON snapshot of an owner's goals. URL is set when it was uploaded.
type Export struct {
	Filename string
	Data     []byte
	URL      string
}

type exportDocument struct {
	Owner      string           `json:"owner"`
	ExportedAt time.Time        `json:"exportedAt"`
	Summary    *model.Summary   `json:"summary"`
	Goals      []model.GoalView `json:"goals"`
}

type ExportService struct {
	savings *SavingsService
	storage storage.Storage // nil: exports are only returned inline
	expiry  time.Duration
	now     func() time.Time

	mu     sync.Mutex
	latest map[string]string // owner -> path of their last upload
}

func NewExportService(savings *SavingsService, store storage.Storage, expiry time.Duration) *ExportService {
	return &ExportService{
		savings: savings,
		storage: store,
		expiry:  expiry,
		now:     time.Now,
		latest:  make(map[string]string),
	}
}

// Export always reads fresh goals so the snapshot reflects the backend of record.
func (s *ExportService) Export(ctx context.Context, owner string) (*Export, error) {
	key, err := callerKey(owner)
	if err != nil {
		return nil, err
	}

	views, err := s.savings.Views(ctx, key, true)
	if err != nil {
		return nil, err
	}
	summary, err := s.savings.Summary(ctx, key)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	doc := exportDocument{
		Owner:      key,
		ExportedAt: now,
		Summary:    summary,
		Goals:      views,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	export := &Export{
		Filename: fmt.Sprintf("goals-%s.json", now.Format("20060102-150405")),
		Data:     data,
	}

	if s.storage == nil {
		return export, nil
	}

	path := fmt.Sprintf("exports/%s/%s", key, export.Filename)
	err = s.storage.Save(ctx, path, bytes.NewReader(data), "application/json")
	if err != nil {
		slog.Error("failed to upload export", "error", err, "owner", key, "path", path)
		return nil, err
	}
	s.replace(ctx, key, path)

	export.URL, err = s.storage.PresignedURL(ctx, path, s.expiry)
	if err != nil {
		return nil, err
	}

	slog.Info("export uploaded", "owner", key, "path", path)
	return export, nil
}

// replace records path as the owner's export and removes the one it supersedes.
// Only one export per owner is kept in storage.
func (s *ExportService) replace(ctx context.Context, owner, path string) {
	s.mu.Lock()
	prev := s.latest[owner]
	s.latest[owner] = path
	s.mu.Unlock()

	if prev == "" || prev == path {
		return
	}
	if err := s.storage.Delete(ctx, prev); err != nil {
		slog.Warn("failed to delete superseded export", "error", err, "owner", owner, "path", prev)
	}
}
