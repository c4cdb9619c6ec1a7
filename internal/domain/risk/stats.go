package risk

import "github.com/clinsight/clinsight/internal/domain/assessment"

// InstrumentStats summarizes one instrument's footprint in the dataset.
type InstrumentStats struct {
	Instrument     assessment.Instrument `json:"instrument"`
	Records        int                   `json:"records"`
	UniquePatients int                   `json:"unique_patients"`
	AvgPerPatient  float64               `json:"avg_per_patient"`
	ClinicalInfo   string                `json:"clinical_info"`
}

// SummaryStats is the dataset-wide overview.
type SummaryStats struct {
	Instruments    []InstrumentStats `json:"instruments"`
	TotalRecords   int               `json:"total_records"`
	UniquePatients int               `json:"unique_patients"`
	DataSource     string            `json:"data_source"`
}

var clinicalInfo = map[assessment.Instrument]string{
	assessment.PTSD: "PCL-5: 20-item PTSD checklist, range 0-80, provisional diagnosis typically 31-33+",
	assessment.PHQ:  "PHQ-9: 9-item depression screen, range 0-27, moderate depression at 10+",
	assessment.GAD:  "GAD-7: 7-item anxiety screen, range 0-21, moderate anxiety at 10+",
	assessment.WHO:  "WHO-5: 5-item wellbeing index, reported 0-100 scaled, below 52 suggests poor wellbeing",
	assessment.DERS: "DERS: 36-item emotion regulation scale, range 36-180, higher indicates greater difficulty",
}
