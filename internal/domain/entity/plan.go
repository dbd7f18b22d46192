package entity

type TestKind string

const (
	KindUX             TestKind = "ux"
	KindAccessibility  TestKind = "accessibility"
	KindFunctional     TestKind = "functional"
	KindResponsiveness TestKind = "responsiveness"
)

func (k TestKind) String() string {
	return string(k)
}

func (k TestKind) Valid() bool {
	switch k {
	case KindUX, KindAccessibility, KindFunctional, KindResponsiveness:
		return true
	}
	return false
}

// TestPlan is a rendered task prompt plus what the report needs to describe it.
type TestPlan struct {
	Kind        TestKind
	Title       string
	TargetURL   string
	Scenario    string
	Prompt      string
	UsesProfile bool
}
