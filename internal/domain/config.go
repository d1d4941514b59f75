package domain

// Config mirrors ~/.heartrisk/config.yaml.
type Config struct {
	ConfigFormatVersion string        `yaml:"config_format_version"`
	Backend             BackendConfig `yaml:"backend"`
	Models              ModelsConfig  `yaml:"models"`
	Form                FormConfig    `yaml:"form"`
	Server              ServerConfig  `yaml:"server"`
	Log                 LogConfig     `yaml:"log"`
}

// BackendConfig points at the remote prediction service.
type BackendConfig struct {
	BaseURL  string   `yaml:"base_url"`
	Encoding Encoding `yaml:"encoding"`
	// Timeout is a Go duration; "0s" leaves the transport default in place.
	Timeout string `yaml:"timeout"`
}

// Encoding selects the wire contract spoken to the backend.
type Encoding string

const (
	// EncodingString sends categorical fields as tokens under model_choice/patient_data.
	EncodingString Encoding = "string"
	// EncodingInteger sends integer codes under model_name/data.
	EncodingInteger Encoding = "integer"
)

// ModelsConfig controls where the model list comes from.
type ModelsConfig struct {
	Fetch       bool     `yaml:"fetch"`
	Recommended string   `yaml:"recommended"`
	Available   []string `yaml:"available"`
}

// FormConfig holds the record the form starts from and resets to.
type FormConfig struct {
	Defaults PatientAttributes `yaml:"defaults"`
}

// ServerConfig configures `heartrisk serve`.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	SessionTTL      string   `yaml:"session_ttl"`
	ShutdownTimeout string   `yaml:"shutdown_timeout"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// LogConfig selects level and handler format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}
