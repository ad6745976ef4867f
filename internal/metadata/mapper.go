package metadata

import (
	"errors"
	"fmt"

	"hypercert-metadata/internal/application"
	"hypercert-metadata/internal/config"
	"hypercert-metadata/internal/naming"
)

// ErrNotVerified is returned by Map when the registry does not list the
// project in its matching pool. It signals a rejection, not a failure.
var ErrNotVerified = errors.New("project not verified in registry")

// Verifier reports whether a project is active in a matching pool.
type Verifier interface {
	Verify(round, title, address string) bool
}

// Mapper builds records from applications. It is read-only after
// construction and safe for concurrent use.
type Mapper struct {
	defaults  config.Defaults
	rounds    config.RoundTable
	verifier  Verifier
	allowlist string
	grantURL  func(round, projectID string) string
}

// NewMapper creates a mapper using the defaults, round table and URL
// templates of cfg.
func NewMapper(cfg *config.Config, verifier Verifier) *Mapper {
	return &Mapper{
		defaults:  cfg.Defaults,
		rounds:    cfg.Rounds(),
		verifier:  verifier,
		allowlist: cfg.AllowlistBaseURL,
		grantURL:  cfg.GrantURL,
	}
}

// Map builds the record for an application submitted under projectID.
// It returns config.ErrUnknownRound when the round address is not in the
// round table and ErrNotVerified when the registry rejects the project.
func (m *Mapper) Map(doc *application.Document, projectID string) (*Record, error) {
	if doc == nil || doc.Application == nil || doc.Application.Project == nil {
		return nil, fmt.Errorf("%w: application.project", application.ErrMissingField)
	}

	app := doc.Application
	project := app.Project
	d := m.defaults

	address := app.RecipientAddress()
	name := project.Name()

	projectDate, err := project.CreatedAt.Seconds(d.FallbackCreated)
	if err != nil {
		return nil, err
	}

	icon := IPFSScheme + project.Logo(d.DefaultLogo)
	banner := IPFSScheme + project.Banner(d.DefaultBanner)
	allowlist := m.allowlist + naming.Slug(name) + ".csv"

	roundContract := app.RoundAddress()

	matchingPool, err := m.rounds.Resolve(roundContract)
	if err != nil {
		return nil, err
	}

	grantPage := m.grantURL(roundContract, projectID)
	workScope := naming.Truncate(name, d.WorkScopeLength)

	if !m.verifier.Verify(matchingPool, name, address) {
		return nil, fmt.Errorf("%w: %q in %q", ErrNotVerified, name, matchingPool)
	}

	return &Record{
		Name:        name,
		Description: project.Summary(),
		ExternalURL: project.URL(),
		Image:       icon,
		Version:     d.Version,
		Properties: []Property{
			{TraitType: TraitFundingPlatform, Value: d.FundingPlatform},
			{TraitType: TraitFundingRound, Value: d.FundingRound},
			{TraitType: TraitMatchingPool, Value: matchingPool},
		},
		Hypercert: Hypercert{
			ImpactScope: Dimension{
				Name:         "Impact Scope",
				Value:        []any{d.DefaultImpact},
				DisplayValue: naming.TitleCase(d.DefaultImpact),
			},
			WorkScope: Dimension{
				Name:         "Work Scope",
				Value:        []any{workScope},
				DisplayValue: naming.TitleCase(workScope),
			},
			WorkTimeframe: Dimension{
				Name:         "Work Timeframe",
				Value:        []any{d.WorkStartDate, projectDate},
				DisplayValue: Timeframe(d.WorkStartDate, projectDate),
			},
			ImpactTimeframe: Dimension{
				Name:         "Impact Timeframe",
				Value:        []any{projectDate, d.ImpactEndDate},
				DisplayValue: Timeframe(projectDate, d.ImpactEndDate),
			},
			Contributors: Dimension{
				Name:         "Contributors",
				Value:        []any{address},
				DisplayValue: ShortenAddress(address),
			},
			Rights: Dimension{
				Name:         "Rights",
				Value:        []any{"public display", "-transfers"},
				DisplayValue: "Public display",
			},
		},
		HiddenProperties: HiddenProperties{
			Allowlist:       allowlist,
			ProjectBanner:   banner,
			ProjectIcon:     icon,
			GitcoinGrantURL: grantPage,
		},
	}, nil
}
