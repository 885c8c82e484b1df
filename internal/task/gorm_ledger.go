package task

import (
	"context"
	"errors"
	"time"

	"github.com/eleven-am/mesh-router/internal/agent"
	"github.com/eleven-am/mesh-router/internal/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type taskRow struct {
	Seq                  uint   `gorm:"primaryKey;autoIncrement"`
	ID                   string `gorm:"not null;uniqueIndex"`
	AgentID              string `gorm:"index"`
	Status               Status `gorm:"not null;index"`
	Priority             int
	BaseLoad             float64
	IndustryTags         shared.StringSlice `gorm:"type:json"`
	RequiredCapabilities shared.StringSlice `gorm:"type:json"`
	Strategy             string
	EdgeRequirements     shared.FloatMap    `gorm:"type:json"`
	Location             *agent.Location    `gorm:"type:json"`
	PreviousAgentIDs     shared.StringSlice `gorm:"type:json"`
	RerouteCount         int
	Success              *bool
	RoutedAt             time.Time
	UpdatedAt            time.Time `gorm:"autoUpdateTime:false"`
}

func (taskRow) TableName() string { return "mesh_tasks" }

func (row *taskRow) record() *Record {
	loc := row.Location
	if loc != nil && *loc == (agent.Location{}) {
		loc = nil
	}
	return &Record{
		ID:                   row.ID,
		AgentID:              row.AgentID,
		Status:               row.Status,
		Priority:             row.Priority,
		BaseLoad:             row.BaseLoad,
		IndustryTags:         row.IndustryTags,
		RequiredCapabilities: row.RequiredCapabilities,
		Strategy:             row.Strategy,
		EdgeRequirements:     row.EdgeRequirements,
		Location:             loc,
		PreviousAgentIDs:     row.PreviousAgentIDs,
		RerouteCount:         row.RerouteCount,
		Success:              row.Success,
		RoutedAt:             row.RoutedAt,
		UpdatedAt:            row.UpdatedAt,
	}
}

func (row *taskRow) apply(r *Record) {
	row.AgentID = r.AgentID
	row.Status = r.Status
	row.Priority = r.Priority
	row.BaseLoad = r.BaseLoad
	row.IndustryTags = r.IndustryTags
	row.RequiredCapabilities = r.RequiredCapabilities
	row.Strategy = r.Strategy
	row.EdgeRequirements = r.EdgeRequirements
	row.Location = r.Location
	row.PreviousAgentIDs = r.PreviousAgentIDs
	row.RerouteCount = r.RerouteCount
	row.Success = r.Success
	row.RoutedAt = r.RoutedAt
	row.UpdatedAt = r.UpdatedAt
}

type GormLedger struct {
	db *gorm.DB
}

func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

func (l *GormLedger) Migrate() error {
	return l.db.AutoMigrate(&taskRow{})
}

func (l *GormLedger) Get(ctx context.Context, id string) (*Record, error) {
	var row taskRow
	err := l.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.record(), nil
}

func (l *GormLedger) Put(ctx context.Context, r *Record) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row taskRow
		err := tx.Where("id = ?", r.ID).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = taskRow{ID: r.ID}
			row.apply(r)
			return tx.Create(&row).Error
		}
		if err != nil {
			return err
		}
		row.apply(r)
		return tx.Save(&row).Error
	})
}

func (l *GormLedger) Update(ctx context.Context, id string, fn func(*Record) error) (*Record, error) {
	var updated *Record
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row taskRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrTaskNotFound
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

func (l *GormLedger) List(ctx context.Context) ([]*Record, error) {
	var rows []taskRow
	if err := l.db.WithContext(ctx).Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*Record, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].record())
	}
	return out, nil
}

func (l *GormLedger) Count(ctx context.Context) (int64, error) {
	var n int64
	err := l.db.WithContext(ctx).Model(&taskRow{}).Count(&n).Error
	return n, err
}
