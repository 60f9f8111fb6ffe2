package report

// Compose builds the webhook payload. It has no side effects.
func Compose(description string, id Identity, rule Rule, evidence string) Report {
	return Report{
		Evidence:    evidence,
		Description: description,
		Pelapor:     id.Name,
		Phone:       id.Phone,
		Category:    rule.Category,
		SubCategory: rule.SubCategory,
	}
}
