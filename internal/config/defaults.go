package config

const (
	defaultLogDir          = "~/.local/share/subforge/logs"
	defaultReportDB        = "~/.local/share/subforge/report.db"
	defaultEngineBinary    = "whisper-ctranslate2"
	defaultEngineModel     = "base"
	defaultMinWordsPerLine = 5
	defaultMaxDuplicates   = 2
	defaultDefaultLanguage = "en"
	defaultDetectionMethod = "auto"
	defaultConcurrency     = 2
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			ReportDB: defaultReportDB,
		},
		Engine: Engine{
			Binary:        defaultEngineBinary,
			Model:         defaultEngineModel,
			OutputFormats: []string{"srt", "vtt"},
		},
		Subtitles: Subtitles{
			MinWordsPerLine:          defaultMinWordsPerLine,
			MaxConsecutiveDuplicates: defaultMaxDuplicates,
		},
		Detection: Detection{
			Enabled:         true,
			DefaultLanguage: defaultDefaultLanguage,
			Method:          defaultDetectionMethod,
		},
		Workflow: Workflow{
			Concurrency: defaultConcurrency,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
