package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Slug     string   `json:"slug" validate:"required,slug"`
	Color    string   `json:"primary_color" validate:"omitempty,hexrgb"`
	Features []string `json:"features" validate:"min=1,dive,featurekey"`
}

func TestCustomTags(t *testing.T) {
	err := Struct(sample{Slug: "green-valley", Color: "#3b82f6", Features: []string{"feeManagement"}})
	assert.NoError(t, err)

	err = Struct(sample{Slug: "Green Valley", Color: "blue", Features: []string{"teleport"}})
	fields := Fields(err)
	assert.Contains(t, fields, "slug")
	assert.Contains(t, fields, "primary_color")
	assert.Contains(t, fields, "features[0]")
}

func TestEmptyFeatureListRejected(t *testing.T) {
	fields := Fields(Struct(sample{Slug: "a", Features: nil}))
	assert.Equal(t, "must contain at least 1 item(s)", fields["features"])
}

func TestSlugPattern(t *testing.T) {
	assert.True(t, IsSlug("abc-123"))
	assert.False(t, IsSlug("-abc"))
	assert.False(t, IsSlug("abc--def"))
	assert.False(t, IsSlug("ABC"))
	assert.False(t, IsSlug(""))
}

func TestHexRGB(t *testing.T) {
	assert.True(t, IsHexRGB("#A1b2C3"))
	assert.False(t, IsHexRGB("#abc"))
	assert.False(t, IsHexRGB("A1B2C3"))
	assert.False(t, IsHexRGB("#GGGGGG"))
}

func TestFieldsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, Fields(assert.AnError))
}

func TestNotBlank(t *testing.T) {
	type named struct {
		Name string `json:"name" validate:"required,notblank"`
	}
	assert.NoError(t, Struct(named{Name: "Riverside"}))

	fields := Fields(Struct(named{Name: " \t "}))
	assert.Equal(t, "must not be blank", fields["name"])
}
