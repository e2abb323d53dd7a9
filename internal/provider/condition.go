package provider

// conditionInfo pairs the display text for a WMO weather interpretation code
// with an OpenWeatherMap-style icon identifier.
type conditionInfo struct {
	Text string
	Icon string
}

const (
	defaultConditionText = "Unknown"
	defaultConditionIcon = "01d"
)

// wmoConditions covers the code set Open-Meteo documents. Everything else
// falls through to the default pair.
var wmoConditions = map[int]conditionInfo{
	0:  {"Clear sky", "01d"},
	1:  {"Mainly clear", "02d"},
	2:  {"Partly cloudy", "03d"},
	3:  {"Overcast", "04d"},
	45: {"Foggy", "50d"},
	48: {"Foggy", "50d"},
	51: {"Drizzle", "09d"},
	53: {"Drizzle", "09d"},
	55: {"Drizzle", "09d"},
	61: {"Rain", "10d"},
	63: {"Rain", "10d"},
	65: {"Rain", "10d"},
	71: {"Snow", "13d"},
	73: {"Snow", "13d"},
	75: {"Snow", "13d"},
	77: {"Snow grains", "13d"},
	80: {"Rain showers", "09d"},
	81: {"Rain showers", "09d"},
	82: {"Rain showers", "09d"},
	85: {"Snow showers", "13d"},
	86: {"Snow showers", "13d"},
	95: {"Thunderstorm", "11d"},
	96: {"Thunderstorm with hail", "11d"},
	99: {"Thunderstorm with hail", "11d"},
}

// Condition translates a WMO weather code into display text and an icon
// identifier. The mapping is total: unknown codes yield the default pair
// rather than an error, keeping provider coupling contained here.
func Condition(code int) (text, icon string) {
	if c, ok := wmoConditions[code]; ok {
		return c.Text, c.Icon
	}
	return defaultConditionText, defaultConditionIcon
}
