package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.experiment_events (
//     id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id    BIGINT NOT NULL,
//     variant    TEXT NOT NULL,
//     book_id    BIGINT NOT NULL,
//     event_type TEXT NOT NULL,
//     context    JSONB,
//     created_at TIMESTAMPTZ DEFAULT NOW()
// );

type ExperimentEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:user_id;not null" json:"user_id"`
	Variant   string    `gorm:"column:variant;not null" json:"variant"`
	BookID    uint64    `gorm:"column:book_id;not null" json:"book_id"`
	EventType string    `gorm:"column:event_type;not null" json:"event_type"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Context datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context"`
}

func (ExperimentEvent) TableName() string {
	return "experiment_events"
}
