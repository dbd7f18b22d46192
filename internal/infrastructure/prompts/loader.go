package prompts

import (
	_ "embed"

	"onboarding-audit/internal/domain/entity"
)

//go:embed system.txt
var DefaultSystemPrompt string

//go:embed ux.txt
var UXPrompt string

//go:embed accessibility.txt
var AccessibilityPrompt string

//go:embed functional.txt
var FunctionalPrompt string

//go:embed responsiveness.txt
var ResponsivenessPrompt string

type planTemplate struct {
	title       string
	body        string
	usesProfile bool
}

var planTemplates = map[entity.TestKind]planTemplate{
	entity.KindUX:             {title: "UX review", body: UXPrompt, usesProfile: true},
	entity.KindAccessibility:  {title: "Accessibility audit", body: AccessibilityPrompt, usesProfile: true},
	entity.KindFunctional:     {title: "Functional test", body: FunctionalPrompt, usesProfile: true},
	entity.KindResponsiveness: {title: "Responsiveness check", body: ResponsivenessPrompt},
}
