package cloudwatch

// perfUnits maps CloudWatch unit names to performance data units of
// measure. Units without an equivalent are dropped.
var perfUnits = map[string]string{
	"Percent":      "%",
	"Bytes":        "B",
	"Kilobytes":    "KB",
	"Megabytes":    "MB",
	"Gigabytes":    "GB",
	"Terabytes":    "TB",
	"Count":        "",
	"Seconds":      "s",
	"Milliseconds": "ms",
	"Microseconds": "us",
}

// PerfUnit returns the performance data unit for a CloudWatch unit.
func PerfUnit(unit string) string {
	return perfUnits[unit]
}
