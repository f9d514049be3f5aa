package models

// Fixed values written over personal data. Writing a token over itself is
// a no-op, which keeps every redaction pass re-entrant.
const (
	RedactedName      = "REDACTED_NAME"
	RedactedEmail     = "REDACTED_EMAIL"
	RedactedAddress   = "REDACTED_ADDRESS"
	RedactedPhone     = "REDACTED_PHONE"
	RedactedVetName   = "REDACTED_VET_NAME"
	RedactedVetRCVS   = "REDACTED_VET_RCVS"
	RedactedNote      = "REDACTED_NOTE"
	RedactedException = "REDACTED_EXCEPTION"
	RedactedHerdName  = "REDACTED_HERD_NAME"
)

// PayloadRedactions maps free-text payload keys to their tokens.
var PayloadRedactions = map[string]string{
	"name":          RedactedName,
	"farmerName":    RedactedName,
	"orgName":       RedactedName,
	"businessName":  RedactedName,
	"email":         RedactedEmail,
	"orgEmail":      RedactedEmail,
	"farmerEmail":   RedactedEmail,
	"address":       RedactedAddress,
	"phone":         RedactedPhone,
	"vetName":       RedactedVetName,
	"vetsName":      RedactedVetName,
	"vetRcvs":       RedactedVetRCVS,
	"vetRCVSNumber": RedactedVetRCVS,
	"note":          RedactedNote,
	"notes":         RedactedNote,
	"exception":     RedactedException,
	"exceptionText": RedactedException,
	"herdName":      RedactedHerdName,
}
