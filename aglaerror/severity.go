package aglaerror

// Severity classifies how serious an error is. The zero value means the
// severity was never set; only the four named levels are valid members.
type Severity int

// Severity levels, ordered from most to least severe.
const (
	SeverityFatal Severity = iota + 1
	SeverityError
	SeverityWarning
	SeverityInfo
)

// severityNames maps each valid Severity to its canonical uppercase name.
var severityNames = map[Severity]string{
	SeverityFatal:   "FATAL",
	SeverityError:   "ERROR",
	SeverityWarning: "WARNING",
	SeverityInfo:    "INFO",
}

// String returns the canonical uppercase name of the severity, or "UNKNOWN"
// for any value outside the defined set.
//
// Returns:
//   - string: "FATAL", "ERROR", "WARNING", "INFO" or "UNKNOWN".
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsValidSeverity reports whether value is a genuine Severity member.
// Membership is exact: the dynamic type must be Severity and the value must
// be one of the four defined levels. Values that merely look similar, raw
// integers or floats, numeric strings ("0", "1", "-1"), case variants of
// the member names, NaN and the infinities, are never members.
//
// Parameters:
//   - value: Any value to test for membership.
//
// Returns:
//   - bool: true only when value is one of the defined Severity constants.
func IsValidSeverity(value any) bool {
	s, ok := value.(Severity)
	if !ok {
		return false
	}
	_, known := severityNames[s]
	return known
}
