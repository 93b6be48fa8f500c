package models

// StationInfo holds the descriptive header block of a gauge file.
type StationInfo struct {
	Port          string            `json:"port,omitempty"`
	Site          string            `json:"site,omitempty"`
	Latitude      *float64          `json:"latitude,omitempty"`
	Longitude     *float64          `json:"longitude,omitempty"`
	StartDate     string            `json:"startDate,omitempty"`
	EndDate       string            `json:"endDate,omitempty"`
	Contributor   string            `json:"contributor,omitempty"`
	Datum         string            `json:"datum,omitempty"`
	ParameterCode string            `json:"parameterCode,omitempty"`
	Fields        map[string]string `json:"fields,omitempty"`
}

// ID returns the port code, falling back to the site name.
func (s StationInfo) ID() string {
	if s.Port != "" {
		return s.Port
	}
	return s.Site
}
