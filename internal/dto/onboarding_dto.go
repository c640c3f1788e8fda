// FILE: internal/dto/onboarding_dto.go
// DTOs for the onboarding wizard
package dto

// OnboardingStepRequest edits the wizard draft. Absent sections are left as they are.
type OnboardingStepRequest struct {
	Info     *OnboardingInfo     `json:"info,omitempty"`
	Contact  *OnboardingContact  `json:"contact,omitempty"`
	Branding *OnboardingBranding `json:"branding,omitempty"`
	Features []string            `json:"features,omitempty"`
}

type OnboardingInfo struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ContactEmail string `json:"contact_email"`
}

type OnboardingContact struct {
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Timezone string `json:"timezone"`
	Language string `json:"language"`
	Currency string `json:"currency"`
}

type OnboardingBranding struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	AccentColor    string `json:"accent_color"`
	FontFamily     string `json:"font_family"`
}

type OnboardingStateResponse struct {
	Step     string             `json:"step"`
	Info     OnboardingInfo     `json:"info"`
	Contact  OnboardingContact  `json:"contact"`
	Branding OnboardingBranding `json:"branding"`
	Features []string           `json:"features"`
	Catalog  []string           `json:"catalog"`
	Tenant   *TenantResponse    `json:"tenant,omitempty"`
}
