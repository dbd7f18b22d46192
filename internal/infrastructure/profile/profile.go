package profile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"onboarding-audit/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultProfile []byte

var ErrInvalidProfile = errors.New("invalid profile")

// Default returns the built-in test subject.
func Default() (entity.Profile, error) {
	return parse(defaultProfile)
}

// Load reads a profile from a YAML file, or returns the built-in one when
// path is empty.
func Load(path string) (entity.Profile, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.Profile{}, fmt.Errorf("read profile %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (entity.Profile, error) {
	var p entity.Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return entity.Profile{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if err := validate(p); err != nil {
		return entity.Profile{}, err
	}
	return p, nil
}

func validate(p entity.Profile) error {
	if p.Individual.FirstName == "" || p.Individual.LastName == "" {
		return fmt.Errorf("%w: individual name is required", ErrInvalidProfile)
	}
	if p.Business.LegalName == "" {
		return fmt.Errorf("%w: business legal name is required", ErrInvalidProfile)
	}
	var total float64
	for _, o := range p.Owners {
		if o.Ownership < 0 || o.Ownership > 100 {
			return fmt.Errorf("%w: owner %s %s has ownership %.2f", ErrInvalidProfile, o.FirstName, o.LastName, o.Ownership)
		}
		total += o.Ownership
	}
	if total > 100 {
		return fmt.Errorf("%w: ownership adds up to %.2f%%", ErrInvalidProfile, total)
	}
	return nil
}

// JSON renders the profile the way prompts embed it.
func JSON(p entity.Profile) (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}
	return string(data), nil
}
