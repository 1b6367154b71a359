package cache

import (
	"fmt"
)

type EntityType string

const (
	EntityPractitioner EntityType = "practitioner"
	EntityCase         EntityType = "case"
	EntityPayout       EntityType = "payout"
	EntityRoster       EntityType = "roster"
)

type KeyType string

const (
	KeyID     KeyType = "id"
	KeyEmail  KeyType = "email"
	KeyNumber KeyType = "number"
	KeyTag    KeyType = "tag"
)

// GenerateKey creates a standardized cache key
func GenerateKey(entity EntityType, keyType KeyType, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}
