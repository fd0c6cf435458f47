package log

// ANSI escape codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorGray    = "\033[90m"
)

var levelColors = map[LogLevel]string{
	Debug: colorGray,
	Info:  colorGreen,
	Warn:  colorYellow,
	Error: colorRed,
	Fatal: colorMagenta,
}

// Color returns the escape code a line of level l starts with.
// Levels without a color reset the terminal instead.
func Color(l LogLevel) string {
	if c, ok := levelColors[l]; ok {
		return c
	}
	return colorReset
}

// colorize wraps line in the color of level l.
func colorize(l LogLevel, line string) string {
	return Color(l) + line + colorReset
}
