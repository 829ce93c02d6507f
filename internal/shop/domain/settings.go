package domain

// Settings is the cosmetic bootstrap payload from the settings service:
// shop identity plus theme variables. Read-only.
type Settings struct {
	Title        string            `json:"ecom_title"`
	Logo         string            `json:"ecom_logo"`
	CSSVariables map[string]string `json:"css_variables"`
}
