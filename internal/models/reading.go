package models

// Reading — ответ оракула на один вопрос. Не сохраняется и не изменяется.
type Reading struct {
	Quote          string      `json:"quote"`
	QuoteDate      string      `json:"quote_date"`
	Similarity     float64     `json:"similarity"`
	Interpretation string      `json:"interpretation,omitempty"`
	Conditions     *Conditions `json:"conditions,omitempty"`
}

// Conditions — ежедневные метрики «передачи», показываемые рядом с чтением.
type Conditions struct {
	H5Gain          float64 `json:"h5_gain"`
	H7Gain          float64 `json:"h7_gain"`
	H10Gain         float64 `json:"h10_gain"`
	ConditionsLabel string  `json:"conditions_label"`
	OperatingMode   string  `json:"operating_mode"`
}
