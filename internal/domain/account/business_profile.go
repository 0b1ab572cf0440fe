package account

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BusinessProfile is the structured onboarding profile the keyword planner
// reads from. One row per user; list-shaped fields are jsonb arrays of
// strings.
type BusinessProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	BusinessName        string         `gorm:"not null;column:business_name" json:"business_name"`
	WebsiteURL          string         `gorm:"column:website_url" json:"website_url"`
	Description         string         `gorm:"type:text;column:description" json:"description"`
	Offerings           datatypes.JSON `gorm:"type:jsonb;column:offerings" json:"offerings"`
	Differentiators     datatypes.JSON `gorm:"type:jsonb;column:differentiators" json:"differentiators"`
	LocationScope       string         `gorm:"column:location_scope" json:"location_scope"`
	Locations           datatypes.JSON `gorm:"type:jsonb;column:locations" json:"locations"`
	CustomerDescription string         `gorm:"type:text;column:customer_description" json:"customer_description"`
	SearchIntents       datatypes.JSON `gorm:"type:jsonb;column:search_intents" json:"search_intents"`
	SeedKeywords        datatypes.JSON `gorm:"type:jsonb;column:seed_keywords" json:"seed_keywords"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (BusinessProfile) TableName() string { return "business_profile" }

func (p *BusinessProfile) OfferingsList() []string       { return decodeStrings(p.Offerings) }
func (p *BusinessProfile) DifferentiatorsList() []string { return decodeStrings(p.Differentiators) }
func (p *BusinessProfile) LocationsList() []string       { return decodeStrings(p.Locations) }
func (p *BusinessProfile) SearchIntentsList() []string   { return decodeStrings(p.SearchIntents) }
func (p *BusinessProfile) SeedKeywordsList() []string    { return decodeStrings(p.SeedKeywords) }

// PrimaryLocation is the first declared location, or empty.
func (p *BusinessProfile) PrimaryLocation() string {
	locs := p.LocationsList()
	if len(locs) == 0 {
		return ""
	}
	return locs[0]
}

func decodeStrings(j datatypes.JSON) []string {
	if len(j) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(j, &out); err != nil {
		return nil
	}
	return out
}
