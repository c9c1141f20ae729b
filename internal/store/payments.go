// Package store backs the domain Store interfaces with Postgres and pushes
// a fresh collection snapshot to realtime subscribers after every write.
// The database is the sole source of truth; subscribers replace local state
// wholesale with each snapshot.
package store

import (
	"context"
	"errors"

	"opsdash/internal/app/realtime"
	"opsdash/internal/domain/payments"

	"gorm.io/gorm"
)

// PaymentsCollection is the collection name on the realtime channel.
const PaymentsCollection = "project_payments"

var ErrNotFound = errors.New("record not found")

type Payments struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewPayments(db *gorm.DB, hub *realtime.Hub) *Payments {
	return &Payments{db: db, hub: hub}
}

func (s *Payments) ListByProject(ctx context.Context, projectID string) ([]payments.Payment, error) {
	var records []payments.Payment
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("due_date asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []payments.Payment{}
	}
	return records, nil
}

func (s *Payments) ListAll(ctx context.Context) ([]payments.Payment, error) {
	var records []payments.Payment
	if err := s.db.WithContext(ctx).Order("due_date asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Payments) GetByID(ctx context.Context, id string) (*payments.Payment, error) {
	var record payments.Payment
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Payments) Create(ctx context.Context, p *payments.Payment) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return err
	}
	s.Broadcast(ctx, p.ProjectID)
	return nil
}

// UpdateFields applies a partial update: only the supplied columns change.
func (s *Payments) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).
		Model(&payments.Payment{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	record, err := s.GetByID(ctx, id)
	if err == nil {
		s.Broadcast(ctx, record.ProjectID)
	}
	return nil
}

func (s *Payments) Delete(ctx context.Context, id string) error {
	record, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&payments.Payment{}, "id = ?", id).Error; err != nil {
		return err
	}
	s.Broadcast(ctx, record.ProjectID)
	return nil
}

// Broadcast pushes the project's full payment list to subscribers.
func (s *Payments) Broadcast(ctx context.Context, projectID string) {
	if s.hub == nil {
		return
	}
	records, err := s.ListByProject(ctx, projectID)
	if err != nil {
		return
	}
	s.hub.PublishSnapshot(PaymentsCollection, projectID, records)
}
