package services

import (
	"encoding/json"
	"log"

	"github.com/chaitanyaB4u/ferries/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// auditTransition records a before/after image of a lifecycle change inside
// the caller's transaction. Audit problems are logged, never allowed to fail
// the business write.
func auditTransition(tx *gorm.DB, actorID uint, action, resourceType string, resourceID uint, before, after interface{}) {
	beforeJSON, err := json.Marshal(before)
	if err != nil {
		beforeJSON = nil
	}
	afterJSON, err := json.Marshal(after)
	if err != nil {
		afterJSON = nil
	}

	entry := models.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Before:       datatypes.JSON(beforeJSON),
		After:        datatypes.JSON(afterJSON),
	}
	if err := tx.Create(&entry).Error; err != nil {
		log.Printf("audit: could not record %s on %s %d: %v", action, resourceType, resourceID, err)
	}
}
