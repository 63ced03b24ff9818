package history

import "time"

// Run is one persisted reconciliation run outcome.
type Run struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Trigger     string    `gorm:"column:trigger_source;size:32" json:"trigger"`
	WindowStart time.Time `gorm:"column:window_start" json:"window_start"`
	WindowEnd   time.Time `gorm:"column:window_end" json:"window_end"`
	Synced      int       `gorm:"column:synced" json:"synced"`
	Skipped     int       `gorm:"column:skipped" json:"skipped"`
	Message     string    `gorm:"column:message;size:255" json:"message"`
	Error       string    `gorm:"column:error;size:1024" json:"error,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name.
func (Run) TableName() string {
	return "sync_runs"
}
