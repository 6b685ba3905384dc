// Package climate holds the domain data model for regional emissions
// planning: regions with baseline emissions and sector shares, the catalog
// of interventions with per-unit effect coefficients, intervention
// scenarios, and the numeric projection of a scenario against a region.
//
// Data is loaded from CSV files. Malformed or missing numeric fields are
// reported as errors rather than silently defaulted, so callers decide
// explicitly between failing and substituting a documented default.
package climate
