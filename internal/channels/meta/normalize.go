package meta

import (
	"strings"

	"github.com/leadhook/leadhook/internal/leads"
)

// Provider field names mapped onto the fixed lead contact attributes. Lead
// forms are free-form, but Meta's default question types use these names.
var contactFieldNames = map[string]string{
	"full_name":    "name",
	"name":         "name",
	"first_name":   "first_name",
	"last_name":    "last_name",
	"email":        "email",
	"work_email":   "email",
	"phone_number": "phone",
	"phone":        "phone",
}

// NormalizeLead maps the provider's field list onto a lead record owned by
// accountID. Unmapped contact attributes stay empty strings, never null, to
// satisfy storage constraints; fields that are not contact attributes are
// preserved in the lead text.
func NormalizeLead(detail *LeadDetail, accountID int64) *leads.CreateLeadRequest {
	req := &leads.CreateLeadRequest{
		AccountID:      accountID,
		Source:         leads.SourceFacebookLeadAd,
		ExternalLeadID: detail.ID,
	}

	var firstName, lastName string
	var extra []string

	for _, field := range detail.FieldData {
		value := firstValue(field.Values)
		if value == "" {
			continue
		}
		switch contactFieldNames[strings.ToLower(field.Name)] {
		case "name":
			req.ContactName = value
		case "first_name":
			firstName = value
		case "last_name":
			lastName = value
		case "email":
			req.ContactEmail = value
		case "phone":
			req.ContactPhone = value
		default:
			extra = append(extra, field.Name+": "+value)
		}
	}

	if req.ContactName == "" {
		req.ContactName = strings.TrimSpace(firstName + " " + lastName)
	}
	req.LeadText = strings.Join(extra, "\n")
	return req
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
