package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	"reactor.de/certprofile/internal/domain"
)

const profilesFile = "profiles.yaml"

// YAMLProfileLoader implements the domain.ProfileSource interface for YAML files.
type YAMLProfileLoader struct {
	configPath string
}

// NewYAMLProfileLoader creates a new profile loader reading from configPath.
func NewYAMLProfileLoader(configPath string) *YAMLProfileLoader {
	return &YAMLProfileLoader{configPath: configPath}
}

// LoadProfiles loads all profiles from profiles.yaml in document order.
func (l *YAMLProfileLoader) LoadProfiles() ([]*domain.Profile, error) {
	path := filepath.Join(l.configPath, profilesFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", profilesFile, err)
	}

	// Validate against JSON schema first
	if err := l.ValidateProfiles(data); err != nil {
		return nil, fmt.Errorf("validation error: %s: %w", profilesFile, err)
	}

	profiles, err := ParseProfiles(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", profilesFile, err)
	}
	return profiles, nil
}

// ValidateProfiles validates profile configuration against the JSON schema.
func (l *YAMLProfileLoader) ValidateProfiles(data []byte) error {
	return validateProfilesConfig(data)
}

type rawProfile struct {
	Description string            `yaml:"description"`
	Desc        string            `yaml:"desc"`
	CNInSAN     *bool             `yaml:"cn_in_san"`
	Subject     map[string]string `yaml:"subject"`
	Extensions  yaml.Node         `yaml:"extensions"`
}

type rawExtension struct {
	Critical bool      `yaml:"critical"`
	Kind     string    `yaml:"kind"`
	Value    yaml.Node `yaml:"value"`
}

type rawAIA struct {
	Issuers []string `yaml:"issuers"`
	OCSP    []string `yaml:"ocsp"`
}

type rawDistributionPoint struct {
	FullName     []string `yaml:"full_name"`
	RelativeName string   `yaml:"relative_name"`
	CRLIssuer    []string `yaml:"crl_issuer"`
	Reasons      []string `yaml:"reasons"`
}

// ParseProfiles decodes the profile wire format: a mapping from profile name
// to profile. Profiles are returned in document order. Extension payloads that
// do not fit their kind become domain.Unrecognized rather than errors.
func ParseProfiles(data []byte) ([]*domain.Profile, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	doc := resolveAlias(root.Content[0])
	if doc.ShortTag() == "!!null" {
		return nil, nil
	}
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: profiles must be a mapping of profile names", doc.Line)
	}
	pairs, err := mappingPairs(doc)
	if err != nil {
		return nil, err
	}

	profiles := make([]*domain.Profile, 0, len(pairs))
	for _, pair := range pairs {
		name := pair.key.Value

		var raw rawProfile
		if err := pair.value.Decode(&raw); err != nil {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}

		p, err := raw.toProfile(name)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (r rawProfile) toProfile(name string) (*domain.Profile, error) {
	p := &domain.Profile{
		Name:            name,
		Description:     r.Description,
		CNInSAN:         r.CNInSAN,
		SubjectDefaults: make(map[domain.SubjectKey]string, len(r.Subject)),
		Extensions:      make(map[domain.ExtensionName]*domain.ExtensionSpec),
	}
	if p.Description == "" {
		p.Description = r.Desc
	}
	for k, v := range r.Subject {
		p.SubjectDefaults[domain.SubjectKey(k)] = v
	}

	ext := resolveAlias(&r.Extensions)
	if ext.Kind == 0 || ext.ShortTag() == "!!null" {
		return p, nil
	}
	if ext.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: extensions must be a mapping", ext.Line)
	}
	pairs, err := mappingPairs(ext)
	if err != nil {
		return nil, err
	}

	for _, pair := range pairs {
		extName := domain.ExtensionName(pair.key.Value)
		node := resolveAlias(pair.value)

		if node.ShortTag() == "!!null" {
			// Explicitly configured as absent.
			p.Extensions[extName] = nil
			continue
		}

		var rawExt rawExtension
		if err := node.Decode(&rawExt); err != nil {
			return nil, fmt.Errorf("extension %s: %w", extName, err)
		}
		rawExt.Value = *resolveAlias(&rawExt.Value)
		p.Extensions[extName] = &domain.ExtensionSpec{
			Critical: rawExt.Critical,
			Value:    rawExt.toValue(extName),
		}
	}
	return p, nil
}

type nodePair struct {
	key, value *yaml.Node
}

// mappingPairs lists the entries of a mapping node in document order with
// aliases followed and merge keys ("<<") expanded. Explicit keys win over
// merged ones, and earlier merge sources win over later ones.
func mappingPairs(node *yaml.Node) ([]nodePair, error) {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", node.Line)
	}

	var explicit, merged []nodePair
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if !isMergeKey(key) {
			explicit = append(explicit, nodePair{key: key, value: value})
			continue
		}

		value = resolveAlias(value)
		sources := []*yaml.Node{value}
		if value.Kind == yaml.SequenceNode {
			sources = value.Content
		}
		for _, src := range sources {
			pairs, err := mappingPairs(src)
			if err != nil {
				return nil, fmt.Errorf("line %d: merge value must be a mapping", key.Line)
			}
			merged = append(merged, pairs...)
		}
	}

	seen := make(map[string]bool, len(explicit)+len(merged))
	out := make([]nodePair, 0, len(explicit)+len(merged))
	for _, pair := range append(explicit, merged...) {
		if seen[pair.key.Value] {
			continue
		}
		seen[pair.key.Value] = true
		out = append(out, pair)
	}
	return out, nil
}

func isMergeKey(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Value == "<<" && n.ShortTag() == "!!merge"
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// toValue builds the payload variant. An explicit kind overrides the
// vocabulary's kind for name.
func (r rawExtension) toValue(name domain.ExtensionName) domain.ExtensionValue {
	kind := domain.ExtensionKind(r.Kind)
	if kind == "" {
		kind, _ = name.Kind()
	}
	hasValue := r.Value.Kind != 0 && r.Value.ShortTag() != "!!null"

	switch kind {
	case domain.KindToggle:
		return domain.Toggle{}

	case domain.KindMultiChoice:
		var tokens []string
		if hasValue {
			if err := r.Value.Decode(&tokens); err != nil {
				return r.unrecognized(kind)
			}
		}
		return domain.MultiChoice(tokens)

	case domain.KindCompoundAIA:
		var aia rawAIA
		if hasValue {
			if r.Value.Kind != yaml.MappingNode {
				return r.unrecognized(kind)
			}
			if err := r.Value.Decode(&aia); err != nil {
				return r.unrecognized(kind)
			}
		}
		return domain.AuthorityInformationAccess{Issuers: aia.Issuers, OCSP: aia.OCSP}

	case domain.KindCompoundDistributionPoint:
		var dp rawDistributionPoint
		if hasValue {
			if r.Value.Kind != yaml.MappingNode {
				return r.unrecognized(kind)
			}
			if err := r.Value.Decode(&dp); err != nil {
				return r.unrecognized(kind)
			}
		}
		return domain.DistributionPoint{
			FullName:     dp.FullName,
			RelativeName: dp.RelativeName,
			CRLIssuer:    dp.CRLIssuer,
			Reasons:      dp.Reasons,
		}

	case domain.KindGeneralNames:
		var names []string
		if hasValue {
			if err := r.Value.Decode(&names); err != nil {
				return r.unrecognized(kind)
			}
		}
		return domain.GeneralNames(names)
	}

	return r.unrecognized(kind)
}

func (r rawExtension) unrecognized(kind domain.ExtensionKind) domain.Unrecognized {
	var raw interface{}
	if r.Value.Kind != 0 {
		// Best effort; the payload is only used in diagnostics.
		_ = r.Value.Decode(&raw)
	}
	return domain.Unrecognized{Declared: kind, Raw: raw}
}
