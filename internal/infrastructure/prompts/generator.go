package prompts

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"text/template"

	"onboarding-audit/internal/domain/entity"
	"onboarding-audit/internal/infrastructure/profile"
)

var ErrUnknownKind = errors.New("unknown test kind")

type PlanPromptData struct {
	TargetURL       string
	BusinessDetails string
}

// BuildPlan renders the prompt for kind against targetURL. The profile is
// embedded whole for kinds that fill forms.
func BuildPlan(kind entity.TestKind, targetURL string, p entity.Profile) (*entity.TestPlan, error) {
	tmpl, ok := planTemplates[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	data := PlanPromptData{TargetURL: targetURL}
	if tmpl.usesProfile {
		details, err := profile.JSON(p)
		if err != nil {
			return nil, err
		}
		data.BusinessDetails = details
	}

	prompt, err := GeneratePrompt(string(kind), tmpl.body, data)
	if err != nil {
		return nil, err
	}

	return &entity.TestPlan{
		Kind:        kind,
		Title:       tmpl.title,
		TargetURL:   targetURL,
		Scenario:    scenarioOf(targetURL),
		Prompt:      prompt,
		UsesProfile: tmpl.usesProfile,
	}, nil
}

func GeneratePrompt(name, baseTemplate string, data PlanPromptData) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(baseTemplate)
	if err != nil {
		return "", fmt.Errorf("parse %s template: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", name, err)
	}

	return buf.String(), nil
}

func scenarioOf(targetURL string) string {
	u, err := url.Parse(targetURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("scenario")
}
