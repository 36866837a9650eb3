package domain

// Report is a printable rendition of a pivot configuration
type Report struct {
	Title    string
	Sections []ReportSection
	Unused   []string // keys still in the available zone
}

// ReportSection is one role zone of the configuration
type ReportSection struct {
	Title   string
	Details []ReportDetail
}

// ReportDetail is one field placed in a role zone
type ReportDetail struct {
	Position    int
	Key         string
	Label       string
	Aggregation string
}

// NewReport lays out config in role order. available may be nil.
func NewReport(title string, config PivotConfiguration, available []PivotItem) *Report {
	report := &Report{Title: title}
	for _, zone := range RoleZones {
		section := ReportSection{Title: string(zone)}
		for i, field := range config.Role(zone) {
			section.Details = append(section.Details, ReportDetail{
				Position:    i + 1,
				Key:         field.Key,
				Label:       field.Label,
				Aggregation: string(field.Aggregation),
			})
		}
		report.Sections = append(report.Sections, section)
	}
	for _, item := range available {
		report.Unused = append(report.Unused, item.Key)
	}
	return report
}
