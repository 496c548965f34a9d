package entity

type LabTest struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice"`
	Category      string  `json:"category"`
	Parameters    int     `json:"parameters"`
	ReportTime    string  `json:"reportTime"`
	Fasting       bool    `json:"fasting"`
}

type Package struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice"`
	TestsCount    int     `json:"testsCount"`
	Parameters    int     `json:"parameters"`
	ReportTime    string  `json:"reportTime"`
	Popular       bool    `json:"popular"`
	Featured      bool    `json:"featured"`
}
