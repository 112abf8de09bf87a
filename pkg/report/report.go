// Package report defines the incident report form, its validation rules, and
// the submission boundary with the MangroveWatch server.
package report

import "time"

// Form field names, matching the server's expected POST fields.
const (
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldIncidentType = "incident_type"
	FieldSeverity     = "severity"
	FieldIncidentDate = "incident_date"
	FieldLatitude     = "latitude"
	FieldLongitude    = "longitude"
	FieldLocationName = "location_name"
	FieldPhoto        = "photo"
)

// FieldOrder is the document order of the form, used to focus the first
// invalid field.
var FieldOrder = []string{
	FieldTitle,
	FieldIncidentType,
	FieldSeverity,
	FieldIncidentDate,
	FieldDescription,
	FieldLocationName,
	FieldLatitude,
	FieldLongitude,
	FieldPhoto,
}

// Fields holds the current scalar form values keyed by field name.
type Fields map[string]string

// IncidentTypes the form offers, mirroring the reporting categories the
// dashboard filters on.
var IncidentTypes = []string{
	"illegal_cutting",
	"dumping",
	"pollution",
	"land_reclamation",
	"construction",
	"other",
}

// Severities in escalation order.
var Severities = []string{"low", "medium", "high", "critical"}

// DateLayout is the wire format for incident_date.
const DateLayout = "2006-01-02"

// Report is a submitted incident as the server's /api/reports returns it.
type Report struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	IncidentType string    `json:"incident_type"`
	Severity     string    `json:"severity"`
	Status       string    `json:"status"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	LocationName string    `json:"location_name"`
	CreatedAt    time.Time `json:"created_at"`
	Reporter     string    `json:"reporter"`
}
