package models

import "gorm.io/gorm"

// AuditLog records admin mutations (status changes, verification runs,
// agreement signings) with before/after snapshots.
type AuditLog struct {
	gorm.Model
	AdminUserID  uint   `json:"adminUserId" gorm:"index"`
	Action       string `json:"action" gorm:"index"`
	ResourceType string `json:"resourceType"`
	ResourceID   uint   `json:"resourceId" gorm:"index"`
	BeforeJSON   string `json:"beforeJson"`
	AfterJSON    string `json:"afterJson"`
	IPAddress    string `json:"ipAddress"`
}
