package utils

// Terminal color codes used by the command line output.
const (
	SuccessColor = "\x1b[92m"
	DefaultColor = "\x1b[39m"
)

// Decorate wraps the message in the given color when colors are enabled.
func Decorate(msg, color string, enabled bool) string {
	if !enabled {
		return msg
	}
	return color + msg + DefaultColor
}
