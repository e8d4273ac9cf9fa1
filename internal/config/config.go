package config

import "github.com/spf13/viper"

// Config holds every environment-provided setting. Provider credentials are
// optional: a missing credential degrades that capability instead of
// crashing the process.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`

	KakaoRESTKey      string `mapstructure:"KAKAO_REST_KEY"`
	NaverClientID     string `mapstructure:"NAVER_CLIENT_ID"`
	NaverClientSecret string `mapstructure:"NAVER_CLIENT_SECRET"`
	GoogleAPIKey      string `mapstructure:"GOOGLE_API_KEY"`

	OracleBaseURL string `mapstructure:"ORACLE_BASE_URL"`
	OracleAPIKey  string `mapstructure:"ORACLE_API_KEY"`
	OracleModel   string `mapstructure:"ORACLE_MODEL"`
}

// LoadConfig reads configuration from app.env in the given path, with
// environment variables taking precedence.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("ORACLE_BASE_URL", "https://api.openai.com")
	viper.SetDefault("ORACLE_MODEL", "gpt-4o-mini")

	viper.AutomaticEnv()

	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
