package feed

// Source configuration types

type Source struct {
	Name     string         `yaml:"name"` // falls back to the filename without extension
	URL      string         `yaml:"url"`
	Settings SourceSettings `yaml:"settings"`
}

type SourceSettings struct {
	Enabled        bool `yaml:"enabled"`
	Timeout        int  `yaml:"timeout"` // seconds
	MaxItems       int  `yaml:"max_items"`
	ExtractContent bool `yaml:"extract_content"` // fetch linked pages for readable content
}
