package config

import "github.com/spf13/viper"

type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	PostgresConn  string `mapstructure:"POSTGRES_CONN"`
	MigrationURL  string `mapstructure:"MIGRATION_URL"`

	JWTSecret     string `mapstructure:"JWT_SECRET"`
	TokenTTLHours int    `mapstructure:"TOKEN_TTL_HOURS"`

	SweepIntervalMinutes int `mapstructure:"SWEEP_INTERVAL_MINUTES"`

	PaymentMerchantId string `mapstructure:"PAYMENT_MERCHANT_ID"`
	PaymentSecret     string `mapstructure:"PAYMENT_SECRET"`
	PaymentReturnURL  string `mapstructure:"PAYMENT_RETURN_URL"`
}

// LoadConfig reads an env-format file from path plus the real environment;
// environment variables win over the file.
func LoadConfig(path string) (cfg Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_ADDRESS", ":8080")
	viper.SetDefault("TOKEN_TTL_HOURS", 24)
	viper.SetDefault("SWEEP_INTERVAL_MINUTES", 15)

	if err = viper.ReadInConfig(); err != nil {
		// a config file is optional when everything comes from the environment
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&cfg)
	return
}
