package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// Practitioner permissions
	PermissionCaseRead     = "case:read"
	PermissionCaseProgress = "case:progress"
	PermissionOpinionWrite = "opinion:write"
	PermissionProfileWrite = "profile:write"
	PermissionPayoutRead   = "payout:read"

	// Operator permissions
	PermissionRegistryWrite = "registry:write"
	PermissionCaseRoute     = "case:route"
	PermissionOpinionReview = "opinion:review"
	PermissionRatingWrite   = "rating:write"
	PermissionPayoutExecute = "payout:execute"
)

type ActorClaims struct {
	jwt.RegisteredClaims
	ActorID     uint     `json:"actor_id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// HasPermission checks if the claims include a specific permission
func (c *ActorClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case "admin":
		return []string{
			PermissionCaseRead,
			PermissionCaseProgress,
			PermissionCaseRoute,
			PermissionOpinionWrite,
			PermissionOpinionReview,
			PermissionRegistryWrite,
			PermissionRatingWrite,
			PermissionPayoutRead,
			PermissionPayoutExecute,
			PermissionProfileWrite,
			PermissionReadAdmin,
			PermissionWriteAdmin,
		}
	case "operator":
		return []string{
			PermissionCaseRead,
			PermissionCaseRoute,
			PermissionOpinionReview,
			PermissionRegistryWrite,
			PermissionRatingWrite,
			PermissionPayoutRead,
			PermissionPayoutExecute,
		}
	case "practitioner":
		return []string{
			PermissionCaseRead,
			PermissionCaseProgress,
			PermissionOpinionWrite,
			PermissionProfileWrite,
			PermissionPayoutRead,
		}
	default:
		return []string{}
	}
}
