package onboarding

import (
	"strings"

	"schoolhub-be/internal/constant"
)

// Info is step 1.
type Info struct {
	Name         string `json:"name" validate:"required,notblank,max=255"`
	Slug         string `json:"slug" validate:"required,slug,max=100"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
}

// Contact is step 2. Nothing is required.
type Contact struct {
	Address  string `json:"address" validate:"max=500"`
	Phone    string `json:"phone" validate:"max=30"`
	Email    string `json:"email" validate:"omitempty,email"`
	Timezone string `json:"timezone" validate:"max=50"`
	Language string `json:"language" validate:"max=10"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
}

// Branding is step 3. Empty colors fall back to the default palette.
type Branding struct {
	PrimaryColor   string `json:"primary_color" validate:"omitempty,hexrgb"`
	SecondaryColor string `json:"secondary_color" validate:"omitempty,hexrgb"`
	AccentColor    string `json:"accent_color" validate:"omitempty,hexrgb"`
	FontFamily     string `json:"font_family" validate:"max=100"`
}

// Selection is step 4.
type Selection struct {
	Features []string `json:"features" validate:"min=1,dive,featurekey"`
}

// Draft is everything the wizard has collected so far.
type Draft struct {
	Info      Info      `json:"info"`
	Contact   Contact   `json:"contact"`
	Branding  Branding  `json:"branding"`
	Selection Selection `json:"selection"`
}

func (d Draft) clone() Draft {
	out := d
	out.Selection.Features = append([]string(nil), d.Selection.Features...)
	return out
}

// Selected returns the chosen keys as a set.
func (d Draft) Selected() map[constant.FeatureKey]bool {
	set := make(map[constant.FeatureKey]bool, len(d.Selection.Features))
	for _, k := range d.Selection.Features {
		set[constant.FeatureKey(k)] = true
	}
	return set
}

const maxSlugLength = 100

// NormalizeSlug derives a slug from a display name: lower-case ASCII letters
// and digits, every other run of characters collapsed to one hyphen.
func NormalizeSlug(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > maxSlugLength {
		out = strings.TrimRight(out[:maxSlugLength], "-")
	}
	return out
}
