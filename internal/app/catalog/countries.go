package catalog

import "strings"

// Country is a chart country offered to the user.
type Country struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

var countries = []Country{
	{Code: "US", Name: "United States", Region: "North America"},
	{Code: "CA", Name: "Canada", Region: "North America"},
	{Code: "MX", Name: "Mexico", Region: "North America"},
	{Code: "GB", Name: "United Kingdom", Region: "Europe"},
	{Code: "FR", Name: "France", Region: "Europe"},
	{Code: "DE", Name: "Germany", Region: "Europe"},
	{Code: "ES", Name: "Spain", Region: "Europe"},
	{Code: "IT", Name: "Italy", Region: "Europe"},
	{Code: "NL", Name: "Netherlands", Region: "Europe"},
	{Code: "SE", Name: "Sweden", Region: "Europe"},
	{Code: "NO", Name: "Norway", Region: "Europe"},
	{Code: "DK", Name: "Denmark", Region: "Europe"},
	{Code: "FI", Name: "Finland", Region: "Europe"},
	{Code: "RU", Name: "Russia", Region: "Europe/Asia"},
	{Code: "JP", Name: "Japan", Region: "Asia"},
	{Code: "IN", Name: "India", Region: "Asia"},
	{Code: "KR", Name: "South Korea", Region: "Asia"},
	{Code: "BR", Name: "Brazil", Region: "South America"},
	{Code: "AU", Name: "Australia", Region: "Oceania"},
	{Code: "ZA", Name: "South Africa", Region: "Africa"},
}

// Countries returns the supported chart countries.
func Countries() []Country {
	out := make([]Country, len(countries))
	copy(out, countries)
	return out
}

// CountryName returns the display name of a country code (case-insensitive).
func CountryName(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range countries {
		if c.Code == code {
			return c.Name, true
		}
	}
	return "", false
}
