package analytics

import "strings"

const (
	notSpecified = "Not specified"
	defaultLogo  = "🍽️"
)

// Profile is the restaurant header of the dashboard.
type Profile struct {
	Name         string `json:"name"`
	Cuisine      string `json:"cuisine"`
	Location     string `json:"location"`
	PartnerSince string `json:"partnerSince"`
	Logo         string `json:"logo"`
}

// BuildProfile merges the partner account with the restaurant snapshot of its
// latest match. Missing fields get display defaults.
func BuildProfile(id RestaurantIdentity, data RestaurantData) Profile {
	p := Profile{
		Name:     id.Name,
		Cuisine:  orDefault(data.Cuisine, notSpecified),
		Location: orDefault(data.Address, notSpecified),
		Logo:     orDefault(data.Image, defaultLogo),
	}
	if !id.CreatedAt.IsZero() {
		p.PartnerSince = id.CreatedAt.UTC().Format("January 2006")
	}
	return p
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
