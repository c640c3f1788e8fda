package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"schoolhub-be/internal/constant"
	"schoolhub-be/internal/entity"
	"schoolhub-be/internal/pkg/validation"

	"github.com/google/uuid"
)

type Step int

const (
	StepInfo Step = iota + 1
	StepContact
	StepBranding
	StepFeatures
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepInfo:
		return "Step1_Info"
	case StepContact:
		return "Step2_Contact"
	case StepBranding:
		return "Step3_Branding"
	case StepFeatures:
		return "Step4_Features"
	case StepComplete:
		return "Complete"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var ErrCompleted = errors.New("onboarding already completed")

// StepError rejects a forward transition. The wizard stays on Step.
type StepError struct {
	Step   Step
	Fields map[string]string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("onboarding %s: %d invalid field(s)", e.Step, len(e.Fields))
}

// Finisher performs the terminal transition.
type Finisher interface {
	Finish(ctx context.Context, userID uuid.UUID, draft Draft) (*entity.Tenant, error)
}

type Wizard struct {
	mu       sync.Mutex
	userID   uuid.UUID
	step     Step
	draft    Draft
	catalog  constant.Catalog
	finisher Finisher
	tenant   *entity.Tenant
}

// NewWizard starts on step 1 with the core preset preselected.
func NewWizard(userID uuid.UUID, catalog constant.Catalog, finisher Finisher) *Wizard {
	if catalog == nil {
		catalog = constant.DefaultCatalog
	}
	w := &Wizard{
		userID:   userID,
		step:     StepInfo,
		catalog:  catalog,
		finisher: finisher,
	}
	core, _ := constant.Preset(constant.PresetCore)
	w.draft.Selection.Features = w.offered(core)
	return w
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.clone()
}

// Tenant is the tenant created by the terminal step, nil before that.
func (w *Wizard) Tenant() *entity.Tenant {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tenant.Clone()
}

func (w *Wizard) Catalog() constant.Catalog {
	return w.catalog
}

func (w *Wizard) edit(fn func(d *Draft)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepComplete {
		return ErrCompleted
	}
	fn(&w.draft)
	return nil
}

// SetInfo stores step 1 with the name trimmed. A blank slug is derived from the name.
func (w *Wizard) SetInfo(info Info) error {
	info.Name = strings.TrimSpace(info.Name)
	if info.Slug == "" {
		info.Slug = NormalizeSlug(info.Name)
	}
	return w.edit(func(d *Draft) { d.Info = info })
}

func (w *Wizard) SetContact(contact Contact) error {
	return w.edit(func(d *Draft) { d.Contact = contact })
}

func (w *Wizard) SetBranding(branding Branding) error {
	return w.edit(func(d *Draft) { d.Branding = branding })
}

func (w *Wizard) SetFeatures(keys []constant.FeatureKey) error {
	selected := make([]string, 0, len(keys))
	seen := make(map[constant.FeatureKey]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		selected = append(selected, string(k))
	}
	return w.edit(func(d *Draft) { d.Selection.Features = selected })
}

// ApplyPreset replaces the selection with a named preset, limited to the
// keys this wizard offers.
func (w *Wizard) ApplyPreset(name string) error {
	keys, err := constant.Preset(name)
	if err != nil {
		return err
	}
	offered := w.offered(keys)
	return w.edit(func(d *Draft) { d.Selection.Features = offered })
}

func (w *Wizard) offered(keys []constant.FeatureKey) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if w.catalog.Contains(k) {
			out = append(out, string(k))
		}
	}
	return out
}

// Next validates the current step and moves forward. From step 4 it runs the
// finisher; on failure the wizard stays on step 4.
func (w *Wizard) Next(ctx context.Context) (Step, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step == StepComplete {
		return w.step, ErrCompleted
	}
	if fields := w.validate(w.step); len(fields) > 0 {
		return w.step, &StepError{Step: w.step, Fields: fields}
	}
	if w.step != StepFeatures {
		w.step++
		return w.step, nil
	}

	created, err := w.finisher.Finish(ctx, w.userID, w.draft.clone())
	if err != nil {
		return w.step, err
	}
	w.tenant = created
	w.step = StepComplete
	return w.step, nil
}

// Back moves one step back without validation. Step 1 stays on step 1.
func (w *Wizard) Back() (Step, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.step {
	case StepComplete:
		return w.step, ErrCompleted
	case StepInfo:
		return w.step, nil
	default:
		w.step--
		return w.step, nil
	}
}

func (w *Wizard) validate(step Step) map[string]string {
	var target interface{}
	switch step {
	case StepInfo:
		target = w.draft.Info
	case StepContact:
		target = w.draft.Contact
	case StepBranding:
		target = w.draft.Branding
	case StepFeatures:
		target = w.draft.Selection
	default:
		return nil
	}

	fields := validation.Fields(validation.Struct(target))
	if step == StepFeatures {
		for i, k := range w.draft.Selection.Features {
			key := constant.FeatureKey(k)
			if key.IsValid() && !w.catalog.Contains(key) {
				if fields == nil {
					fields = map[string]string{}
				}
				fields[fmt.Sprintf("features[%d]", i)] = "is not offered to this tenant"
			}
		}
	}
	return fields
}
