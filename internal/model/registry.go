package model

import (
	"fmt"
	"strings"
)

// Open loads the predictor referenced by ref: an http(s) URL selects a
// RemoteClassifier, anything else is read as a CentroidClassifier JSON file.
func Open(ref string) (Predictor, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return NewRemoteClassifier(ref, nil), nil
	}
	return LoadCentroid(ref)
}

// Refs names the artifact of every classifier slot. Empty refs leave the
// slot unavailable.
type Refs struct {
	Variant       string
	VariantScaler string
	Infusion      string
	Liquid        string
}

// Registry holds the classifiers of one process. It is built once at startup
// and only read afterwards.
type Registry struct {
	variant       Predictor
	variantScaler Scaler
	infusion      Predictor
	liquid        Predictor
}

// NewRegistry wires already constructed artifacts. Nil slots are
// unavailable.
func NewRegistry(variant Predictor, variantScaler Scaler, infusion, liquid Predictor) *Registry {
	return &Registry{variant: variant, variantScaler: variantScaler, infusion: infusion, liquid: liquid}
}

// Load opens every configured artifact. Any configured artifact that fails
// to load is an error.
func Load(refs Refs) (*Registry, error) {
	r := &Registry{}
	var err error
	if refs.Variant != "" {
		if r.variant, err = Open(refs.Variant); err != nil {
			return nil, fmt.Errorf("variant model: %w", err)
		}
	}
	if refs.VariantScaler != "" {
		if r.variantScaler, err = LoadScaler(refs.VariantScaler); err != nil {
			return nil, fmt.Errorf("variant scaler: %w", err)
		}
	}
	if refs.Infusion != "" {
		if r.infusion, err = Open(refs.Infusion); err != nil {
			return nil, fmt.Errorf("infusion model: %w", err)
		}
	}
	if refs.Liquid != "" {
		if r.liquid, err = Open(refs.Liquid); err != nil {
			return nil, fmt.Errorf("liquid model: %w", err)
		}
	}
	return r, nil
}

// Variant returns the variant predictor and its optional scaler.
func (r *Registry) Variant() (Predictor, Scaler, error) {
	if r == nil || r.variant == nil {
		return nil, nil, fmt.Errorf("variant: %w", ErrUnavailable)
	}
	return r.variant, r.variantScaler, nil
}

// Infusion returns the infusion predictor.
func (r *Registry) Infusion() (Predictor, error) {
	if r == nil || r.infusion == nil {
		return nil, fmt.Errorf("infusion: %w", ErrUnavailable)
	}
	return r.infusion, nil
}

// Liquid returns the liquid predictor.
func (r *Registry) Liquid() (Predictor, error) {
	if r == nil || r.liquid == nil {
		return nil, fmt.Errorf("liquid: %w", ErrUnavailable)
	}
	return r.liquid, nil
}

// Available lists the configured slots, for health reporting.
func (r *Registry) Available() map[string]bool {
	return map[string]bool{
		"variant":  r != nil && r.variant != nil,
		"infusion": r != nil && r.infusion != nil,
		"liquid":   r != nil && r.liquid != nil,
	}
}
