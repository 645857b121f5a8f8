package config

// Persistent state keys (Registry)
const (
	KeyTTSEngine       = "tts_engine"
	KeyVolume          = "volume"
	KeyPAEnabled       = "pa_enabled"
	KeyTargetLanguages = "target_languages"
	KeyPolishEnabled   = "llm_polish"
	KeyStationName     = "station_name"
)
