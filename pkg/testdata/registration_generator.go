package testdata

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jordanlanch/regbilling/pkg/models"
)

// RegistrationGeneratorConfig configures registration generation parameters
type RegistrationGeneratorConfig struct {
	Seed                 int64
	MinEmployees         int
	MaxEmployees         int
	BillingAddressChance float64 // 0.0-1.0 (probability of a differing billing address)
	PurchaseOrderChance  float64
	ReferralChance       float64
	OriginPortal         string
}

// DefaultRegistrationConfig returns a deterministic config for tests.
func DefaultRegistrationConfig(seed int64) RegistrationGeneratorConfig {
	return RegistrationGeneratorConfig{
		Seed:         seed,
		MinEmployees: 1,
		MaxEmployees: 250,
		OriginPortal: "registration",
	}
}

// UKCounties used for generated addresses
var UKCounties = []string{"Greater London", "Greater Manchester", "West Yorkshire", "Merseyside",
	"West Midlands", "Kent", "Essex", "Hampshire", "Surrey", "Lancashire"}

// UKTowns used for generated addresses
var UKTowns = []string{"London", "Manchester", "Birmingham", "Leeds", "Liverpool",
	"Bristol", "Sheffield", "Newcastle", "Nottingham", "Leicester"}

// Generator produces fake registrations from a seeded faker.
type Generator struct {
	faker  *gofakeit.Faker
	config RegistrationGeneratorConfig
}

// NewGenerator creates a generator; the same seed yields the same registrations.
func NewGenerator(config RegistrationGeneratorConfig) *Generator {
	if config.MaxEmployees < config.MinEmployees {
		config.MaxEmployees = config.MinEmployees
	}
	return &Generator{faker: gofakeit.New(config.Seed), config: config}
}

// UKMobile returns a mobile number in one of the shapes users type in.
func (g *Generator) UKMobile() string {
	digits := g.faker.Numerify("#########")
	switch g.faker.IntRange(0, 3) {
	case 0:
		return "07" + digits
	case 1:
		return "+44 7" + digits
	case 2:
		return fmt.Sprintf("(07%s) %s", digits[:3], digits[3:])
	default:
		return "+44 (0)7" + digits
	}
}

func (g *Generator) chance(p float64) bool {
	return p > 0 && g.faker.Float64Range(0, 1) < p
}

func (g *Generator) pick(values []string) string {
	return values[g.faker.IntRange(0, len(values)-1)]
}

// Registration generates one registration form
func (g *Generator) Registration() *models.RegistrationDetails {
	f := g.faker
	first, last := f.FirstName(), f.LastName()

	details := &models.RegistrationDetails{
		NumberOfEmployees:       f.IntRange(g.config.MinEmployees, g.config.MaxEmployees),
		FirstName:               first,
		LastName:                last,
		Email:                   fmt.Sprintf("%s@%s.test", strings.ToLower(f.LetterN(8)), strings.ToLower(f.LetterN(6))),
		MobileNumber:            g.UKMobile(),
		CompanyName:             f.Company(),
		CompanyAddressLine1:     f.Street(),
		CompanyAddressLine2:     "Unit " + f.Numerify("##"),
		CompanyTownCity:         g.pick(UKTowns),
		CompanyCounty:           g.pick(UKCounties),
		CompanyPostcode:         ukPostcode(f),
		HasOptedForEmailContact: f.Bool(),
		HasOptedForPhoneContact: f.Bool(),
		HasOptedForTextContact:  f.Bool(),
		HasOptedForPostContact:  f.Bool(),
		HasAcceptedTerms:        true,
		OriginPortal:            g.config.OriginPortal,
	}

	if g.chance(g.config.BillingAddressChance) {
		details.IsDifferentAddress = true
		details.BillingName = strPtr(f.Company())
		details.BillingAddressLine1 = strPtr(f.Street())
		details.BillingTownCity = strPtr(g.pick(UKTowns))
		details.BillingPostcode = strPtr(ukPostcode(f))
	}

	if g.chance(g.config.PurchaseOrderChance) {
		details.HasPurchaseOrderNumber = true
		details.PurchaseOrderNumber = strPtr("PO-" + f.Numerify("######"))
	}

	if g.chance(g.config.ReferralChance) {
		details.ReferralCode = strPtr(f.LetterN(8))
	}

	return details
}

// Registrations generates count registration forms
func (g *Generator) Registrations(count int) []*models.RegistrationDetails {
	out := make([]*models.RegistrationDetails, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, g.Registration())
	}
	return out
}

// Registration returns a single registration built from seed.
func Registration(seed int64) *models.RegistrationDetails {
	return NewGenerator(DefaultRegistrationConfig(seed)).Registration()
}

func ukPostcode(f *gofakeit.Faker) string {
	return fmt.Sprintf("%s%d %d%s", f.LetterN(2), f.IntRange(1, 99), f.IntRange(1, 9), f.LetterN(2))
}

func strPtr(s string) *string {
	return &s
}
