package models

import "time"

// IPLog records how often a user has been seen from an address.
// One row per (uid, ip) pair; the count bumps on repeat sightings.
type IPLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UID       uint      `gorm:"column:uid;not null;uniqueIndex:idx_ip_logs_uid_addr" json:"uid"`
	IPAddress string    `gorm:"not null;uniqueIndex:idx_ip_logs_uid_addr" json:"ip_address"`
	Count     int       `gorm:"not null;default:1" json:"count"`
	LastSeen  time.Time `gorm:"autoCreateTime" json:"last_seen"`
}
