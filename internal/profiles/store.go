// Package profiles serves the ready-made sample applicants shown by the
// dashboard and exposed on /samples.
package profiles

import (
	"context"

	"altcred/internal/common/errors"
	"altcred/internal/models"
)

// Store lists and fetches sample profiles. Get returns a PROFILE_NOT_FOUND
// StandardError for unknown ids.
type Store interface {
	List(ctx context.Context) ([]models.SampleProfile, error)
	Get(ctx context.Context, id string) (*models.SampleProfile, error)
}

// Defaults returns the built-in sample applicants.
func Defaults() []models.SampleProfile {
	return []models.SampleProfile{
		{
			ID:          "user-a",
			Name:        "User A (Young Professional)",
			Description: "Salaried early-career applicant with steady digital payments",
			Features: models.FeatureVector{
				Age: 25, Income: 50000, UPITxnCount: 120,
				BillPaymentScore: 85, MobileRechargeScore: 90, EcommerceSpend: 12000,
			},
		},
		{
			ID:          "user-b",
			Name:        "User B (High Income Customer)",
			Description: "Established earner with heavy UPI usage",
			Features: models.FeatureVector{
				Age: 35, Income: 80000, UPITxnCount: 300,
				BillPaymentScore: 95, MobileRechargeScore: 80, EcommerceSpend: 25000,
			},
		},
		{
			ID:          "user-c",
			Name:        "User C (Risky Profile)",
			Description: "Low income, sparse payment history and high online spend",
			Features: models.FeatureVector{
				Age: 20, Income: 15000, UPITxnCount: 5,
				BillPaymentScore: 20, MobileRechargeScore: 30, EcommerceSpend: 50000,
			},
		},
	}
}

// StaticStore serves a fixed, in-memory list.
type StaticStore struct {
	profiles []models.SampleProfile
}

// NewStaticStore serves profiles, or Defaults when none are given.
func NewStaticStore(profiles ...models.SampleProfile) *StaticStore {
	if len(profiles) == 0 {
		profiles = Defaults()
	}
	return &StaticStore{profiles: profiles}
}

func (s *StaticStore) List(_ context.Context) ([]models.SampleProfile, error) {
	out := make([]models.SampleProfile, len(s.profiles))
	copy(out, s.profiles)
	return out, nil
}

func (s *StaticStore) Get(_ context.Context, id string) (*models.SampleProfile, error) {
	for i := range s.profiles {
		if s.profiles[i].ID == id {
			p := s.profiles[i]
			return &p, nil
		}
	}
	return nil, errors.NewProfileNotFoundError(id)
}
