package theme

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"schoolhub-be/internal/entity"
	"schoolhub-be/internal/pkg/logger"
	"schoolhub-be/internal/pkg/metrics"

	"github.com/google/uuid"
)

const (
	VarPrimary    = "--primary"
	VarSecondary  = "--secondary"
	VarAccent     = "--accent"
	VarFontFamily = "--font-family"
)

// Palette is a set of branding inputs in tenant form (#RRGGBB + font name).
type Palette struct {
	Primary    string
	Secondary  string
	Accent     string
	FontFamily string
}

var DefaultPalette = Palette{
	Primary:    "#3B82F6",
	Secondary:  "#10B981",
	Accent:     "#F59E0B",
	FontFamily: "Inter",
}

// Variables are the resolved CSS custom properties. Colors are HSL triplets.
type Variables struct {
	Primary    string `json:"--primary"`
	Secondary  string `json:"--secondary"`
	Accent     string `json:"--accent"`
	FontFamily string `json:"--font-family"`
}

func (v Variables) Map() map[string]string {
	return map[string]string{
		VarPrimary:    v.Primary,
		VarSecondary:  v.Secondary,
		VarAccent:     v.Accent,
		VarFontFamily: v.FontFamily,
	}
}

func VariablesFromMap(m map[string]string) Variables {
	return Variables{
		Primary:    m[VarPrimary],
		Secondary:  m[VarSecondary],
		Accent:     m[VarAccent],
		FontFamily: m[VarFontFamily],
	}
}

// CSS renders the :root block and the document-level font rule.
func (v Variables) CSS() string {
	var b strings.Builder
	b.WriteString(":root {\n")
	fmt.Fprintf(&b, "  %s: %s;\n", VarPrimary, v.Primary)
	fmt.Fprintf(&b, "  %s: %s;\n", VarSecondary, v.Secondary)
	fmt.Fprintf(&b, "  %s: %s;\n", VarAccent, v.Accent)
	fmt.Fprintf(&b, "  %s: %s;\n", VarFontFamily, v.FontFamily)
	b.WriteString("}\n")
	fmt.Fprintf(&b, "body { font-family: var(%s); }\n", VarFontFamily)
	return b.String()
}

// Surface is where applied variables live, keyed by tenant.
type Surface interface {
	Get(ctx context.Context, tenantID uuid.UUID) (Variables, bool, error)
	Set(ctx context.Context, tenantID uuid.UUID, vars Variables) error
}

type Resolver struct {
	surface  Surface
	defaults Variables
	logger   logger.ILogger
	metrics  *metrics.TenantMetrics
}

// NewResolver panics if the default palette itself is malformed.
func NewResolver(surface Surface, defaults Palette, log logger.ILogger, m *metrics.TenantMetrics) *Resolver {
	return &Resolver{
		surface:  surface,
		defaults: mustResolvePalette(defaults),
		logger:   log,
		metrics:  m,
	}
}

func mustResolvePalette(p Palette) Variables {
	colors := [3]string{}
	for i, hex := range []string{p.Primary, p.Secondary, p.Accent} {
		hsl, err := HexToHSL(hex)
		if err != nil {
			panic(fmt.Sprintf("theme: invalid default palette: %v", err))
		}
		colors[i] = hsl.String()
	}
	font := strings.TrimSpace(p.FontFamily)
	if font == "" {
		font = DefaultPalette.FontFamily
	}
	return Variables{Primary: colors[0], Secondary: colors[1], Accent: colors[2], FontFamily: font}
}

// ApplyTheme writes the tenant's branding to the surface and returns what was
// written. An invalid value keeps the previously applied one, or the default
// when nothing was applied yet. Only a surface write failure is an error.
func (r *Resolver) ApplyTheme(ctx context.Context, t *entity.Tenant) (Variables, error) {
	if t == nil {
		return Variables{}, errors.New("theme: no tenant")
	}

	prev, hasPrev, err := r.surface.Get(ctx, t.Id)
	if err != nil {
		r.logger.Warn("THEME", "Could not read applied theme, using defaults for fallback", map[string]interface{}{
			"tenant_id": t.Id.String(),
			"error":     err.Error(),
		})
		hasPrev = false
	}

	vars := Variables{
		Primary:    r.color(t, VarPrimary, t.PrimaryColor, prev.Primary, r.defaults.Primary, hasPrev),
		Secondary:  r.color(t, VarSecondary, t.SecondaryColor, prev.Secondary, r.defaults.Secondary, hasPrev),
		Accent:     r.color(t, VarAccent, t.AccentColor, prev.Accent, r.defaults.Accent, hasPrev),
		FontFamily: r.font(t, prev.FontFamily, hasPrev),
	}

	if err := r.surface.Set(ctx, t.Id, vars); err != nil {
		return Variables{}, fmt.Errorf("apply theme for tenant %s: %w", t.Id, err)
	}
	return vars, nil
}

// Current returns what is applied for tenantID, if anything.
func (r *Resolver) Current(ctx context.Context, tenantID uuid.UUID) (Variables, bool, error) {
	return r.surface.Get(ctx, tenantID)
}

// InSync reports whether vars already reflect the tenant's branding. Values
// that would fall back on apply are not compared.
func (r *Resolver) InSync(t *entity.Tenant, vars Variables) bool {
	for _, c := range []struct{ hex, applied string }{
		{t.PrimaryColor, vars.Primary},
		{t.SecondaryColor, vars.Secondary},
		{t.AccentColor, vars.Accent},
	} {
		hsl, err := HexToHSL(c.hex)
		if err == nil && hsl.String() != c.applied {
			return false
		}
	}
	font := strings.TrimSpace(t.FontFamily)
	return font == "" || font == vars.FontFamily
}

func (r *Resolver) color(t *entity.Tenant, name, hex, prev, def string, hasPrev bool) string {
	hsl, err := HexToHSL(hex)
	if err == nil {
		return hsl.String()
	}
	return r.fallback(t, name, hex, prev, def, hasPrev)
}

func (r *Resolver) font(t *entity.Tenant, prev string, hasPrev bool) string {
	font := strings.TrimSpace(t.FontFamily)
	if font != "" {
		return font
	}
	return r.fallback(t, VarFontFamily, t.FontFamily, prev, r.defaults.FontFamily, hasPrev)
}

func (r *Resolver) fallback(t *entity.Tenant, name, value, prev, def string, hasPrev bool) string {
	chosen := def
	if hasPrev && prev != "" {
		chosen = prev
	}
	r.logger.Warn("THEME", "Invalid branding value, keeping fallback", map[string]interface{}{
		"tenant_id": t.Id.String(),
		"variable":  name,
		"value":     value,
		"fallback":  chosen,
	})
	r.metrics.ThemeFallback(name)
	return chosen
}
