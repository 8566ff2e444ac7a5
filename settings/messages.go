package settings

import "golang.org/x/text/language"

// Message keys for user-facing errors, shared between the capture flow
// surface and the HTTP API responses.
const (
	MsgLocationPermissionDenied = "locationPermissionDenied"
	MsgOutsideVillage           = "outsideVillageError"
	MsgFailedToGetLocation      = "failedToGetLocation"
	MsgPleaseEnterName          = "pleaseEnterName"
	MsgNameInvalid              = "nameInvalid"
	MsgNameTooShort             = "nameTooShort"
	MsgPleaseEnterPhone         = "pleaseEnterPhone"
	MsgPhoneInvalid             = "phoneInvalid"
	MsgPleaseEnterComments      = "pleaseEnterComments"
	MsgFailedToSave             = "failedToSave"
	MsgReportNotFound           = "reportNotFound"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		MsgLocationPermissionDenied: "Location permission was denied.",
		MsgOutsideVillage:           "The selected location is outside the village boundaries.",
		MsgFailedToGetLocation:      "Could not determine your location.",
		MsgPleaseEnterName:          "Please enter your name.",
		MsgNameInvalid:              "The name may contain only letters and spaces.",
		MsgNameTooShort:             "The name must be at least 5 characters long.",
		MsgPleaseEnterPhone:         "Please enter your phone number.",
		MsgPhoneInvalid:             "The phone number may contain only digits.",
		MsgPleaseEnterComments:      "Please describe the incident.",
		MsgFailedToSave:             "The report could not be saved. Please try again.",
		MsgReportNotFound:           "The report no longer exists.",
	},
	language.Greek: {
		MsgLocationPermissionDenied: "Η άδεια τοποθεσίας απορρίφθηκε.",
		MsgOutsideVillage:           "Η επιλεγμένη τοποθεσία είναι εκτός των ορίων του χωριού.",
		MsgFailedToGetLocation:      "Δεν ήταν δυνατός ο εντοπισμός της τοποθεσίας σας.",
		MsgPleaseEnterName:          "Παρακαλώ εισάγετε το όνομά σας.",
		MsgNameInvalid:              "Το όνομα μπορεί να περιέχει μόνο γράμματα και κενά.",
		MsgNameTooShort:             "Το όνομα πρέπει να έχει τουλάχιστον 5 χαρακτήρες.",
		MsgPleaseEnterPhone:         "Παρακαλώ εισάγετε το τηλέφωνό σας.",
		MsgPhoneInvalid:             "Το τηλέφωνο μπορεί να περιέχει μόνο ψηφία.",
		MsgPleaseEnterComments:      "Παρακαλώ περιγράψτε το συμβάν.",
		MsgFailedToSave:             "Η αναφορά δεν αποθηκεύτηκε. Προσπαθήστε ξανά.",
		MsgReportNotFound:           "Η αναφορά δεν υπάρχει πλέον.",
	},
}

// Message returns the string for key in the current language, falling back
// to English, then to the key itself.
func (s *Settings) Message(key string) string {
	if msg, ok := translations[s.Language()][key]; ok {
		return msg
	}
	if msg, ok := translations[language.English][key]; ok {
		return msg
	}
	return key
}
