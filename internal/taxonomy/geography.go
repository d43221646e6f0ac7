package taxonomy

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v2"

	"mintel/pkg/contracts/domain"
)

//go:embed geography.yaml
var geographyYAML []byte

// referenceRegion is one entry of the fixed region -> country reference table.
type referenceRegion struct {
	Name      string   `yaml:"name"`
	Countries []string `yaml:"countries"`
}

type geographyTable struct {
	Regions []referenceRegion `yaml:"regions"`
}

// loadReferenceRegions parses the embedded reference taxonomy. The table is
// static configuration loaded once at process start, never mutated.
func loadReferenceRegions(data []byte) ([]referenceRegion, error) {
	var table geographyTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse geography reference table: %w", err)
	}
	if len(table.Regions) == 0 {
		return nil, fmt.Errorf("geography reference table is empty")
	}
	return table.Regions, nil
}

// GeographyResolution is the outcome of reconciling the reference taxonomy
// against the geography labels present in one dataset. Every input label
// lands in exactly one of the tree (as a region self-match or a matched
// country) or the unmatched bucket.
type GeographyResolution struct {
	Tree      []domain.GeographyNode
	Unmatched []string

	// regionOf maps the normalized form of every matched label (regions
	// included) to the canonical name of its retained region node.
	regionOf map[string]string
}

// AncestorAt returns the label's ancestor at the requested aggregation level.
// Level 1 is the region tier; level 2 and deeper is the label itself. Labels
// outside the resolved tree roll up to themselves.
func (r *GeographyResolution) AncestorAt(label string, level int) string {
	if level >= 2 {
		return label
	}
	if region, ok := r.regionOf[NormalizeLabel(label)]; ok {
		return region
	}
	return label
}

// GeographyResolver matches the fixed region -> country reference taxonomy
// against dataset geography labels. Resolutions are memoized per label set
// because the available labels only change when the dataset does.
type GeographyResolver struct {
	regions []referenceRegion

	mu   sync.RWMutex
	memo map[string]*GeographyResolution
}

// NewGeographyResolver builds a resolver over the embedded reference table.
func NewGeographyResolver() (*GeographyResolver, error) {
	regions, err := loadReferenceRegions(geographyYAML)
	if err != nil {
		return nil, err
	}
	return &GeographyResolver{
		regions: regions,
		memo:    make(map[string]*GeographyResolution),
	}, nil
}

// Resolve reconciles the reference taxonomy against the given labels.
// Matching is exact on normalized forms. A reference node is retained iff it
// self-matched or at least one of its countries matched; unmatched labels are
// returned in their original order. Resolution never fails: absence of a
// match only prunes or excludes.
func (g *GeographyResolver) Resolve(labels []string) *GeographyResolution {
	key := strings.Join(labels, "\x1f")

	g.mu.RLock()
	cached, ok := g.memo[key]
	g.mu.RUnlock()
	if ok {
		return cached
	}

	res := g.resolve(labels)

	g.mu.Lock()
	g.memo[key] = res
	g.mu.Unlock()
	return res
}

func (g *GeographyResolver) resolve(labels []string) *GeographyResolution {
	// First available label wins for each reference name.
	available := make(map[string]string, len(labels))
	for _, label := range labels {
		norm := NormalizeLabel(label)
		if _, ok := available[norm]; !ok {
			available[norm] = label
		}
	}

	res := &GeographyResolution{regionOf: make(map[string]string)}
	matched := make(map[string]bool)

	for _, region := range g.regions {
		node := domain.GeographyNode{Name: region.Name}

		regionNorm := NormalizeLabel(region.Name)
		if canonical, ok := available[regionNorm]; ok {
			node.Name = canonical
			node.ExistsInData = true
			matched[regionNorm] = true
		}

		for _, country := range region.Countries {
			countryNorm := NormalizeLabel(country)
			canonical, ok := available[countryNorm]
			if !ok {
				continue
			}
			node.Children = append(node.Children, domain.GeographyNode{
				Name:         canonical,
				ExistsInData: true,
			})
			matched[countryNorm] = true
		}

		// Retained iff self-matched or at least one matched country.
		if !node.ExistsInData && len(node.Children) == 0 {
			continue
		}
		res.Tree = append(res.Tree, node)

		if node.ExistsInData {
			res.regionOf[regionNorm] = node.Name
		}
		for _, child := range node.Children {
			res.regionOf[NormalizeLabel(child.Name)] = node.Name
		}
	}

	// Only the canonical (first-seen) spelling of a matched name is absorbed
	// into the tree; a second spelling with the same normalized form stays in
	// the unmatched bucket so no label is lost.
	for _, label := range labels {
		norm := NormalizeLabel(label)
		if matched[norm] && available[norm] == label {
			continue
		}
		res.Unmatched = append(res.Unmatched, label)
	}
	return res
}
