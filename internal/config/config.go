package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Analysis struct {
		ReferenceSampleRate int      `mapstructure:"reference_sample_rate"`
		FrameLength         int      `mapstructure:"frame_length"`
		HopLength           int      `mapstructure:"hop_length"`
		BlockFrames         int      `mapstructure:"block_frames"`
		RolloffPercent      float64  `mapstructure:"rolloff_percent"`
		ContrastBands       int      `mapstructure:"contrast_bands"`
		ContrastFmin        float64  `mapstructure:"contrast_fmin"`
		ContrastQuantile    float64  `mapstructure:"contrast_quantile"`
		Extensions          []string `mapstructure:"extensions"`
		SkipOnError         bool     `mapstructure:"skip_on_error"`
	} `mapstructure:"analysis"`
	Storage struct {
		Provider  string `mapstructure:"provider"` // "local" or "s3"
		LocalRoot string `mapstructure:"local_root"`
		KeyID     string `mapstructure:"key_id"`
		AppKey    string `mapstructure:"app_key"`
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
		Prefix    string `mapstructure:"prefix"`
	} `mapstructure:"storage"`
	Server struct {
		ListenAddr  string `mapstructure:"listen_addr"`
		MetricsPort string `mapstructure:"metrics_port"`
		TempDir     string `mapstructure:"temp_dir"`
		LogLevel    string `mapstructure:"log_level"`
	} `mapstructure:"server"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Export struct {
		CSVPath string `mapstructure:"csv_path"`
	} `mapstructure:"export"`
}

func Load() *Config {
	viper.SetEnvPrefix("SPOKENWEB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Register keys
	viper.BindEnv("analysis.reference_sample_rate")
	viper.BindEnv("analysis.frame_length")
	viper.BindEnv("analysis.hop_length")
	viper.BindEnv("analysis.block_frames")
	viper.BindEnv("analysis.rolloff_percent")
	viper.BindEnv("analysis.contrast_bands")
	viper.BindEnv("analysis.contrast_fmin")
	viper.BindEnv("analysis.contrast_quantile")
	viper.BindEnv("analysis.skip_on_error")

	viper.BindEnv("storage.provider")
	viper.BindEnv("storage.local_root")
	viper.BindEnv("storage.key_id")
	viper.BindEnv("storage.app_key")
	viper.BindEnv("storage.endpoint")
	viper.BindEnv("storage.region")
	viper.BindEnv("storage.bucket")
	viper.BindEnv("storage.prefix")

	viper.BindEnv("server.listen_addr")
	viper.BindEnv("server.metrics_port")
	viper.BindEnv("server.temp_dir")
	viper.BindEnv("server.log_level")

	viper.BindEnv("database.path")
	viper.BindEnv("export.csv_path")

	// Analysis Defaults (22.05kHz reference, ~93ms windows)
	viper.SetDefault("analysis.reference_sample_rate", 22050)
	viper.SetDefault("analysis.frame_length", 2048)
	viper.SetDefault("analysis.hop_length", 512)
	viper.SetDefault("analysis.block_frames", 256)
	viper.SetDefault("analysis.rolloff_percent", 0.95)
	viper.SetDefault("analysis.contrast_bands", 5)
	viper.SetDefault("analysis.contrast_fmin", 80.0)
	viper.SetDefault("analysis.contrast_quantile", 0.02)
	viper.SetDefault("analysis.extensions", []string{
		".wav", ".mp3", ".flac", ".ogg", ".m4a", ".aac", ".aiff", ".opus",
	})
	viper.SetDefault("analysis.skip_on_error", true)

	// Infrastructure Defaults
	viper.SetDefault("storage.provider", "local")
	viper.SetDefault("storage.local_root", "./recordings")
	viper.SetDefault("server.listen_addr", ":8081")
	viper.SetDefault("server.metrics_port", ":9091")
	viper.SetDefault("server.temp_dir", "/tmp/spokenweb")
	viper.SetDefault("server.log_level", "error")
	viper.SetDefault("database.path", "./spokenweb.db")
	viper.SetDefault("export.csv_path", "./summaries.csv")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	if cfg.Storage.Provider == "s3" && cfg.Storage.KeyID == "" {
		log.Fatal("Critical: S3 KeyID is missing (SPOKENWEB_STORAGE_KEY_ID)")
	}

	return &cfg
}
