package cfg

type Cfg struct {
	// One-shot digest generation
	EventPath         string
	PayloadJSON       string
	OutputDir         string
	SavePayloadPath   string
	IndexPath         string
	MarkdownPath      string
	ReportConfigPath  string
	DBPath            string
	CheckLinks        bool
	FailOnBrokenLinks bool
	LinkTimeout       int
	LinkReportPath    string

	// Server mode
	Serve           bool
	Port            string
	SourcesDir      string
	RefreshInterval int
	WorkerCount     int
	APIAccessKey    string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
