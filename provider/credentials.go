package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrNoProvider signals that the user has no connected provider integration
// that satisfies the request.
var ErrNoProvider = errors.New("no connected completion provider")

// Integration is a user's stored connection to an external service. The
// Credentials column is an encrypted JSON blob and is never exposed through
// the API.
type Integration struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	UserID        string     `json:"user_id" gorm:"index;not null"`
	IntegrationID string     `json:"integration_id" gorm:"not null"`
	Status        string     `json:"status" gorm:"default:disconnected"`
	Credentials   string     `json:"-" gorm:"type:text"`
	Metadata      string     `json:"metadata,omitempty" gorm:"type:text"`
	ConnectedAt   *time.Time `json:"connected_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName overrides the default GORM table name.
func (Integration) TableName() string {
	return "integrations"
}

// StatusConnected marks an integration whose credentials are usable.
const StatusConnected = "connected"

// Credentials is a resolved, decrypted provider credential set.
type Credentials struct {
	Provider Provider
	APIKey   string
	// ModelID may be empty; callers fall back to the provider default.
	ModelID string
}

// DecryptFunc decrypts the stored credentials blob. The concrete scheme is
// owned by the platform, not by this package.
type DecryptFunc func(ciphertext string) ([]byte, error)

// CredentialStore resolves provider credentials from the integrations table.
type CredentialStore struct {
	db      *gorm.DB
	decrypt DecryptFunc
}

// NewCredentialStore creates a store over db using decrypt for the stored
// credential blobs.
func NewCredentialStore(db *gorm.DB, decrypt DecryptFunc) *CredentialStore {
	return &CredentialStore{db: db, decrypt: decrypt}
}

// Resolve returns decrypted credentials for the named provider, or, when p is
// empty, for the user's first connected provider in Priority order.
func (s *CredentialStore) Resolve(ctx context.Context, userID string, p Provider) (*Credentials, error) {
	candidates := Priority
	if p != "" {
		if !Known(p) {
			return nil, fmt.Errorf("unknown provider %q", p)
		}
		candidates = []Provider{p}
	}

	var integration Integration
	found := false
	for _, candidate := range candidates {
		err := s.db.WithContext(ctx).
			Where("user_id = ? AND integration_id = ? AND status = ?", userID, string(candidate), StatusConnected).
			First(&integration).Error
		if err == nil {
			found = true
			break
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("querying integrations for user %s: %w", userID, err)
		}
	}
	if !found {
		return nil, fmt.Errorf("%w for user %s", ErrNoProvider, userID)
	}

	raw, err := s.decrypt(integration.Credentials)
	if err != nil {
		return nil, fmt.Errorf("decrypting credentials for %s: %w", integration.IntegrationID, err)
	}

	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("parsing credentials for %s: %w", integration.IntegrationID, err)
	}

	apiKey := fields["apiKey"]
	if apiKey == "" {
		return nil, fmt.Errorf("no apiKey in credentials for %s", integration.IntegrationID)
	}

	return &Credentials{
		Provider: Provider(integration.IntegrationID),
		APIKey:   apiKey,
		ModelID:  fields["model"],
	}, nil
}
