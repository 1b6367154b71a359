package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewCaseNumber builds a quotable case number, LC-<epoch seconds>-<4 chars>.
// The uuid suffix disambiguates cases created within the same second.
func NewCaseNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:4]
	return fmt.Sprintf("LC-%d-%s", time.Now().Unix(), suffix)
}
