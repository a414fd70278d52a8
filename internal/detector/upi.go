package detector

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	// upiScheme marks any UPI deep link.
	upiScheme = "upi://"
	// upiPayPrefix is the only UPI action accepted as a payment link.
	upiPayPrefix = "upi://pay?"
)

// upiIDPattern matches a payee identifier in <local-part>@<provider> form.
var upiIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z]+$`)

// IsUPIURL reports whether the input uses the UPI deep-link scheme.
func IsUPIURL(raw string) bool {
	return strings.HasPrefix(raw, upiScheme)
}

// IsValidUPIURL validates a UPI payment link. A link is valid only when it
// starts with upi://pay?, its query carries a pa parameter, and the payee
// identifier follows name@provider form. Any parse failure means invalid;
// this never surfaces as an error.
func IsValidUPIURL(raw string) bool {
	if !strings.HasPrefix(raw, upiPayPrefix) {
		return false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	params, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return false
	}

	ids, ok := params["pa"]
	if !ok || len(ids) == 0 {
		return false
	}

	return upiIDPattern.MatchString(ids[0])
}
