package dbmysql

import (
	"time"
)

// ReadCursor records, per (user, friend) pair, the last point up to which the
// user has acknowledged the friend's messages. Bulk mark-as-read bumps this
// instead of re-touching every row transactionally.
type ReadCursor struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string    `gorm:"column:user_id;size:36;not null;index:idx_cursor_pair,unique" json:"user_id"`
	FriendID   string    `gorm:"column:friend_id;size:36;not null;index:idx_cursor_pair,unique" json:"friend_id"`
	LastReadAt time.Time `gorm:"column:last_read_at" json:"last_read_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
