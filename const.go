package vsmac

// Environment variable names understood by the orchestration layer.
// Callers can also override everything per run via RunConfig.
const (
	// EnvReportPath overrides the report file the runner is expected to
	// produce, relative to the run's working directory.
	EnvReportPath = "DROIDTEST_REPORT_PATH"
	// EnvCapturePath overrides where the runner's stdout is captured.
	EnvCapturePath = "DROIDTEST_CAPTURE_PATH"
	// EnvHistoryDBPath points at the sqlite run-history database.
	EnvHistoryDBPath = "DROIDTEST_DB_PATH"
	// EnvRunTimeout bounds a single runner invocation (Go duration syntax).
	EnvRunTimeout = "DROIDTEST_RUN_TIMEOUT"
)

const (
	// DefaultReportFile is the document the test runner writes into its
	// working directory on a completed run.
	DefaultReportFile = "TestResult.xml"
	// DefaultCaptureFile receives the runner's stdout for diagnostics.
	DefaultCaptureFile = "TestResults.txt"
)

// Device-side constants for the locale broadcast and property scan.
const (
	localeSetAction     = "com.android.intent.action.SET_LOCALE"
	localeSetExtra      = "com.android.intent.extra.LOCALE"
	propSystemLanguage  = "persist.sys.language"
	propSystemLocale    = "persist.sys.locale"
	failureInvalidPaths = "Invalid path for runner or test binary"
)

// supportedLocales is the fixed set of locale codes accepted by SetLocale
// and RunTestSuite. Codes outside this set are rejected before any device
// command is issued.
var supportedLocales = map[string]string{
	"en":    "English (neutral)",
	"de-DE": "German (Germany)",
	"es-ES": "Spanish (Spain)",
	"fr-FR": "French (France)",
	"it-IT": "Italian (Italy)",
	"ja-JP": "Japanese (Japan)",
	"ko-KR": "Korean (Korea)",
	"pt-BR": "Portuguese (Brazil)",
	"ru-RU": "Russian (Russia)",
	"zh-CN": "Chinese (Simplified)",
}

// SupportedLocales returns the accepted locale codes in unspecified order,
// each paired with a human-readable description.
func SupportedLocales() map[string]string {
	out := make(map[string]string, len(supportedLocales))
	for code, desc := range supportedLocales {
		out[code] = desc
	}
	return out
}

// IsSupportedLocale reports whether code is a member of the supported set.
func IsSupportedLocale(code string) bool {
	_, ok := supportedLocales[code]
	return ok
}
