package agent

import (
	"context"
	"errors"
	"time"

	"github.com/eleven-am/mesh-router/internal/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type agentRow struct {
	Seq              uint               `gorm:"primaryKey;autoIncrement"`
	ID               string             `gorm:"not null;uniqueIndex"`
	Status           Status             `gorm:"not null;index"`
	Capabilities     shared.StringSlice `gorm:"type:json"`
	Capacity         float64
	CurrentLoad      float64
	TaskIDs          shared.StringSlice `gorm:"type:json"`
	IntelligenceRole string
	CoordinationRole string
	ResilienceMode   ResilienceMode     `gorm:"default:'standard'"`
	EdgeProfile      shared.FloatMap    `gorm:"type:json"`
	IndustryTags     shared.StringSlice `gorm:"type:json"`
	Location         *Location          `gorm:"type:json"`
	Latency          LatencyProfile     `gorm:"type:json"`
	Confidence       float64
	RegisteredAt     time.Time
	LastHeartbeat    time.Time
	RecoveredAt      *time.Time
}

func (agentRow) TableName() string { return "mesh_agents" }

func (row *agentRow) record() *Record {
	loc := row.Location
	if loc != nil && *loc == (Location{}) {
		loc = nil
	}
	return &Record{
		ID:               row.ID,
		Status:           row.Status,
		Capabilities:     row.Capabilities,
		Capacity:         row.Capacity,
		CurrentLoad:      row.CurrentLoad,
		TaskIDs:          row.TaskIDs,
		IntelligenceRole: row.IntelligenceRole,
		CoordinationRole: row.CoordinationRole,
		ResilienceMode:   row.ResilienceMode,
		EdgeProfile:      row.EdgeProfile,
		IndustryTags:     row.IndustryTags,
		Location:         loc,
		Latency:          row.Latency,
		Confidence:       row.Confidence,
		RegisteredAt:     row.RegisteredAt,
		LastHeartbeat:    row.LastHeartbeat,
		RecoveredAt:      row.RecoveredAt,
	}
}

func (row *agentRow) apply(r *Record) {
	row.Status = r.Status
	row.Capabilities = r.Capabilities
	row.Capacity = r.Capacity
	row.CurrentLoad = r.CurrentLoad
	row.TaskIDs = r.TaskIDs
	row.IntelligenceRole = r.IntelligenceRole
	row.CoordinationRole = r.CoordinationRole
	row.ResilienceMode = r.ResilienceMode
	row.EdgeProfile = r.EdgeProfile
	row.IndustryTags = r.IndustryTags
	row.Location = r.Location
	row.Latency = r.Latency
	row.Confidence = r.Confidence
	row.RegisteredAt = r.RegisteredAt
	row.LastHeartbeat = r.LastHeartbeat
	row.RecoveredAt = r.RecoveredAt
}

// GormStore persists the registry in a relational table, preserving
// registration order through an auto-increment sequence column.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&agentRow{})
}

func (s *GormStore) Get(ctx context.Context, id string) (*Record, error) {
	var row agentRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrAgentNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.record(), nil
}

func (s *GormStore) Create(ctx context.Context, r *Record) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&agentRow{}).Where("id = ?", r.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return shared.ErrDuplicateAgent
		}
		row := agentRow{ID: r.ID}
		row.apply(r)
		return tx.Create(&row).Error
	})
}

func (s *GormStore) Update(ctx context.Context, id string, fn func(*Record) error) (*Record, error) {
	var updated *Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row agentRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrAgentNotFound
		}
		if err != nil {
			return err
		}

		rec := row.record()
		if err := fn(rec); err != nil {
			return err
		}
		row.apply(rec)
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		updated = row.record()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *GormStore) List(ctx context.Context) ([]*Record, error) {
	var rows []agentRow
	if err := s.db.WithContext(ctx).Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*Record, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].record())
	}
	return out, nil
}
