package constant

import "fmt"

// FeatureKey identifies one entry of the tenant feature catalog.
type FeatureKey string

const (
	FeatureAttendanceManagement FeatureKey = "attendanceManagement"
	FeatureFeeManagement        FeatureKey = "feeManagement"
	FeatureStudentPortal        FeatureKey = "studentPortal"
	FeatureTeacherPortal        FeatureKey = "teacherPortal"
	FeatureOnlineExams          FeatureKey = "onlineExams"
	FeatureParentPortal         FeatureKey = "parentPortal"
	FeatureMessagingSystem      FeatureKey = "messagingSystem"
	FeatureEventManagement      FeatureKey = "eventManagement"
	FeatureReportCards          FeatureKey = "reportCards"
	FeatureLibraryManagement    FeatureKey = "libraryManagement"
	FeatureTransportManagement  FeatureKey = "transportManagement"
	FeatureHostelManagement     FeatureKey = "hostelManagement"
	FeatureDisciplineTracking   FeatureKey = "disciplineTracking"
	FeatureHealthRecords        FeatureKey = "healthRecords"
)

// FeatureDefinition describes a catalog entry.
type FeatureDefinition struct {
	Key            FeatureKey
	Name           string
	Category       string // academics, finance, portal, operations, wellbeing
	DefaultEnabled bool   // value used when a tenant has no row for the key
}

// Catalog is an ordered list of feature keys.
type Catalog []FeatureKey

// DefaultCatalog is every feature the platform offers, in display order.
var DefaultCatalog = Catalog{
	FeatureAttendanceManagement,
	FeatureFeeManagement,
	FeatureStudentPortal,
	FeatureTeacherPortal,
	FeatureOnlineExams,
	FeatureParentPortal,
	FeatureMessagingSystem,
	FeatureEventManagement,
	FeatureReportCards,
	FeatureLibraryManagement,
	FeatureTransportManagement,
	FeatureHostelManagement,
	FeatureDisciplineTracking,
	FeatureHealthRecords,
}

// Every key declared above must have exactly one definition here.
// feature_catalog_test.go enforces it.
var featureDefinitions = map[FeatureKey]FeatureDefinition{
	FeatureAttendanceManagement: {Key: FeatureAttendanceManagement, Name: "Attendance Management", Category: "academics"},
	FeatureFeeManagement:        {Key: FeatureFeeManagement, Name: "Fee Management", Category: "finance"},
	FeatureStudentPortal:        {Key: FeatureStudentPortal, Name: "Student Portal", Category: "portal"},
	FeatureTeacherPortal:        {Key: FeatureTeacherPortal, Name: "Teacher Portal", Category: "portal"},
	FeatureOnlineExams:          {Key: FeatureOnlineExams, Name: "Online Exams", Category: "academics"},
	FeatureParentPortal:         {Key: FeatureParentPortal, Name: "Parent Portal", Category: "portal"},
	FeatureMessagingSystem:      {Key: FeatureMessagingSystem, Name: "Messaging System", Category: "operations"},
	FeatureEventManagement:      {Key: FeatureEventManagement, Name: "Event Management", Category: "operations"},
	FeatureReportCards:          {Key: FeatureReportCards, Name: "Report Cards", Category: "academics"},
	FeatureLibraryManagement:    {Key: FeatureLibraryManagement, Name: "Library Management", Category: "operations"},
	FeatureTransportManagement:  {Key: FeatureTransportManagement, Name: "Transport Management", Category: "operations"},
	FeatureHostelManagement:     {Key: FeatureHostelManagement, Name: "Hostel Management", Category: "operations"},
	FeatureDisciplineTracking:   {Key: FeatureDisciplineTracking, Name: "Discipline Tracking", Category: "wellbeing"},
	FeatureHealthRecords:        {Key: FeatureHealthRecords, Name: "Health Records", Category: "wellbeing"},
}

// Definition returns the catalog entry for key.
func Definition(key FeatureKey) (FeatureDefinition, bool) {
	def, ok := featureDefinitions[key]
	return def, ok
}

// DefaultEnabled is the value a tenant gets for a key it has no row for.
// Unknown keys are always off.
func DefaultEnabled(key FeatureKey) bool {
	def, ok := featureDefinitions[key]
	if !ok {
		return false
	}
	return def.DefaultEnabled
}

func (k FeatureKey) IsValid() bool {
	_, ok := featureDefinitions[k]
	return ok
}

func (k FeatureKey) String() string {
	return string(k)
}

// ParseFeatureKey validates a raw key coming from a request or a row.
func ParseFeatureKey(raw string) (FeatureKey, error) {
	key := FeatureKey(raw)
	if !key.IsValid() {
		return "", fmt.Errorf("unknown feature key %q", raw)
	}
	return key, nil
}

// Contains reports whether key is part of the catalog.
func (c Catalog) Contains(key FeatureKey) bool {
	for _, k := range c {
		if k == key {
			return true
		}
	}
	return false
}

// Wizard presets.
const (
	PresetCore     = "core"
	PresetStandard = "standard"
	PresetComplete = "complete"
)

var corePreset = []FeatureKey{
	FeatureAttendanceManagement,
	FeatureFeeManagement,
	FeatureStudentPortal,
	FeatureTeacherPortal,
}

// Preset returns the feature selection for a named preset.
func Preset(name string) ([]FeatureKey, error) {
	switch name {
	case PresetCore:
		return append([]FeatureKey(nil), corePreset...), nil
	case PresetStandard:
		return append(append([]FeatureKey(nil), corePreset...),
			FeatureOnlineExams,
			FeatureParentPortal,
			FeatureMessagingSystem,
			FeatureReportCards,
		), nil
	case PresetComplete:
		return append([]FeatureKey(nil), DefaultCatalog...), nil
	default:
		return nil, fmt.Errorf("unknown preset %q", name)
	}
}
