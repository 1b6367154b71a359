// Command seed bootstraps a development database: a handful of verified
// practitioners with bank accounts, plus freshly minted operator and
// practitioner tokens for exercising the API by hand.
package main

import (
	"log"
	"os"

	"legalconnect/internal/config"
	"legalconnect/internal/models"
	"legalconnect/internal/repositories"
	"legalconnect/internal/utils"

	"github.com/lib/pq"
)

func main() {
	config.LoadEnv()

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET must be set in environment")
	}

	repositories.InitDB()
	defer func() {
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err != nil {
				log.Printf("⚠️ Failed to get SQL DB instance: %v", err)
			} else {
				if err := sqlDB.Close(); err != nil {
					log.Printf("⚠️ Failed to close PostgreSQL connection: %v", err)
				}
			}
		}

		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	practitioners := []models.Practitioner{
		{
			Name:               "Asha Venkatesan",
			Email:              "asha.venkatesan@example.com",
			Phone:              "+919812300101",
			City:               "Bengaluru",
			VerificationStatus: models.VerificationVerified,
			ExpertiseTags:      pq.StringArray{"property", "contract"},
			CommissionRate:     12,
			Tier:               models.TierForRate(12),
		},
		{
			Name:               "Rohan Deshpande",
			Email:              "rohan.deshpande@example.com",
			Phone:              "+919812300102",
			City:               "Mumbai",
			VerificationStatus: models.VerificationVerified,
			ExpertiseTags:      pq.StringArray{"corporate", "tax"},
			CommissionRate:     20,
			Tier:               models.TierForRate(20),
		},
		{
			Name:               "Meera Iyer",
			Email:              "meera.iyer@example.com",
			Phone:              "+919812300103",
			City:               "Bengaluru",
			VerificationStatus: models.VerificationPending,
			ExpertiseTags:      pq.StringArray{"family", "property"},
			CommissionRate:     18,
			Tier:               models.TierForRate(18),
		},
	}

	for i := range practitioners {
		p := &practitioners[i]

		var existing models.Practitioner
		if err := repositories.DB.Where("email = ?", p.Email).First(&existing).Error; err == nil {
			log.Printf("Practitioner %s already exists (id=%d)", p.Email, existing.ID)
			p.ID = existing.ID
			continue
		}

		if err := repositories.DB.Create(p).Error; err != nil {
			log.Fatalf("Failed to create practitioner %s: %v", p.Email, err)
		}
		log.Printf("✅ Created practitioner %s (id=%d)", p.Email, p.ID)
	}

	seedBankAccount(practitioners[0].ID)

	printToken("operator", 1, "ops@legalconnect.example.com")
	printToken("practitioner", practitioners[0].ID, practitioners[0].Email)
}

// seedBankAccount gives the first practitioner a default settlement account
// so payouts can execute end to end. Skipped when sealing is not configured.
func seedBankAccount(practitionerID uint) {
	var count int64
	repositories.DB.Model(&models.BankAccount{}).
		Where("practitioner_id = ?", practitionerID).
		Count(&count)
	if count > 0 {
		log.Printf("Bank account already seeded for practitioner %d", practitionerID)
		return
	}

	sealed, err := utils.SealAccountNumber("001122334455")
	if err != nil {
		log.Printf("⚠️ Skipping bank account seed, sealing unavailable: %v", err)
		return
	}

	account := models.BankAccount{
		PractitionerID:      practitionerID,
		BankName:            "HDFC Bank",
		IFSC:                "HDFC0001234",
		AccountHolder:       "Asha Venkatesan",
		AccountNumberSealed: sealed,
		LastFour:            "4455",
		IsDefault:           true,
	}
	if err := repositories.DB.Create(&account).Error; err != nil {
		log.Fatalf("Failed to create bank account: %v", err)
	}
	log.Printf("✅ Created default bank account for practitioner %d", practitionerID)
}

func printToken(role string, actorID uint, email string) {
	claims := &models.ActorClaims{
		ActorID:     actorID,
		Email:       email,
		Role:        role,
		Permissions: models.GetDefaultPermissions(role),
	}
	access, _, err := utils.GenerateTokens(claims)
	if err != nil {
		log.Fatalf("Failed to mint %s token: %v", role, err)
	}
	log.Printf("%s token (actor %d):\n%s", role, actorID, access)
}
