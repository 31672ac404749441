// Package profile holds the fixed registry of classification profile types
package profile

import "strings"

// Type names one classification profile
type Type string

// The full set of supported profile types. Classification prompts are keyed
// by these values, adding one here requires a matching prompt row
const (
	Software          Type = "software"
	ISO               Type = "iso"
	Telemedicine      Type = "telemedicine"
	Pharma            Type = "pharma"
	EdTech            Type = "edtech"
	Marketing         Type = "marketing"
	Fintech           Type = "fintech"
	Healthtech        Type = "healthtech"
	ELearning         Type = "elearning"
	SoftwareProducts  Type = "software_products"
	SalesforcePartner Type = "salesforce_partner"
	HubspotPartner    Type = "hubspot_partner"
	AWS               Type = "aws"
	Shopify           Type = "shopify"
	AICompanies       Type = "ai_companies"
	MobileApp         Type = "mobile_app"
	Recruiting        Type = "recruiting"
	Banking           Type = "banking"
	Platforms         Type = "platforms"
)

// all is declaration order, which is also the order surfaced to clients
var all = []Type{
	Software, ISO, Telemedicine, Pharma, EdTech, Marketing, Fintech,
	Healthtech, ELearning, SoftwareProducts, SalesforcePartner,
	HubspotPartner, AWS, Shopify, AICompanies, MobileApp, Recruiting,
	Banking, Platforms,
}

var valid = func() map[Type]struct{} {
	m := make(map[Type]struct{}, len(all))
	for _, t := range all {
		m[t] = struct{}{}
	}
	return m
}()

// All returns every supported profile type in declaration order
// callers must not mutate the returned slice
func All() []Type { return all }

// Valid reports whether s names a supported profile type, exact match only
func Valid(s string) bool {
	_, ok := valid[Type(s)]
	return ok
}

// String implements fmt.Stringer
func (t Type) String() string { return string(t) }

// List returns the supported values joined for error messages
func List() string {
	ss := make([]string, len(all))
	for i, t := range all {
		ss[i] = string(t)
	}
	return strings.Join(ss, ", ")
}
