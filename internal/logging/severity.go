package logging

import (
	"github.com/rs/zerolog"

	"github.com/atsushifx/aglabo-error-core/aglaerror"
)

// LevelFor maps an error severity onto the zerolog level used when
// re-emitting a record of that severity. Unset and foreign severities map
// to info: the reporter must not invent urgency the record never carried.
func LevelFor(severity aglaerror.Severity) zerolog.Level {
	switch severity {
	case aglaerror.SeverityFatal:
		return zerolog.FatalLevel
	case aglaerror.SeverityError:
		return zerolog.ErrorLevel
	case aglaerror.SeverityWarning:
		return zerolog.WarnLevel
	case aglaerror.SeverityInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}
