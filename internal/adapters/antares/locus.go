// Package antares is the lookup collaborator: a small REST client for the
// alert broker that resolves one survey object into its raw locus record
package antares

// Alert is one raw measurement entry exactly as the broker returns it
// every field may be absent, normalization decides what is required
type Alert struct {
	MJD      *float64 `json:"ant_mjd"`
	Survey   *int64   `json:"ant_survey"`
	Passband *string  `json:"ant_passband"`
	Mag      *float64 `json:"ant_mag"`
	MagErr   *float64 `json:"ant_magerr"`
	MagLim   *float64 `json:"ant_maglim"`
}

// Locus is the raw record for one object: coordinates, a flat property
// mapping, and the time ordered alert list
type Locus struct {
	ObjectID   string         `json:"locus_id"`
	RA         *float64       `json:"ra"`
	Dec        *float64       `json:"dec"`
	Properties map[string]any `json:"properties"`
	Lightcurve []Alert        `json:"lightcurve"`
}
