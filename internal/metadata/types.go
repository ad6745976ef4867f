package metadata

// Record is the hypercert metadata document written for one project.
type Record struct {
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	ExternalURL      string           `json:"external_url"`
	Image            string           `json:"image"`
	Version          string           `json:"version"`
	Properties       []Property       `json:"properties"`
	Hypercert        Hypercert        `json:"hypercert"`
	HiddenProperties HiddenProperties `json:"hidden_properties"`
}

// Property is a single trait shown by marketplaces.
type Property struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Hypercert holds the dimensions of the impact claim.
type Hypercert struct {
	ImpactScope     Dimension `json:"impact_scope"`
	WorkScope       Dimension `json:"work_scope"`
	WorkTimeframe   Dimension `json:"work_timeframe"`
	ImpactTimeframe Dimension `json:"impact_timeframe"`
	Contributors    Dimension `json:"contributors"`
	Rights          Dimension `json:"rights"`
}

// Dimension is one named hypercert dimension. Value holds strings for
// scopes, contributors and rights, and Unix timestamps for timeframes.
type Dimension struct {
	Name         string `json:"name"`
	Value        []any  `json:"value"`
	DisplayValue string `json:"display_value"`
}

// HiddenProperties are carried in the metadata but not displayed.
type HiddenProperties struct {
	Allowlist       string `json:"allowlist"`
	ProjectBanner   string `json:"project_banner"`
	ProjectIcon     string `json:"project_icon"`
	GitcoinGrantURL string `json:"gitcoin_grant_url"`
}

// Trait names used in Record.Properties.
const (
	TraitFundingPlatform = "Funding Platform"
	TraitFundingRound    = "Funding Round"
	TraitMatchingPool    = "Matching Pool"
)

// MatchingPool returns the value of the matching pool property, or "" if
// the record has none.
func (r *Record) MatchingPool() string {
	for _, p := range r.Properties {
		if p.TraitType == TraitMatchingPool {
			return p.Value
		}
	}

	return ""
}

// SetWorkScope replaces the work scope with a single, verbatim value.
func (r *Record) SetWorkScope(scope string) {
	r.Hypercert.WorkScope.Value = []any{scope}
	r.Hypercert.WorkScope.DisplayValue = scope
}
