package config

import "github.com/spf13/viper"

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	Telegram struct {
		Token string
		// SuperAdminID Привилегированный telegram_id: при первом /start создаётся
		// сразу подтверждённым админом, без регистрации. 0 — не задан.
		SuperAdminID int64 `mapstructure:"super_admin_id"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Retention struct {
		// Days Транзакции и логи старше этого срока удаляются админской очисткой.
		Days int
	} `mapstructure:"retention"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("retention.days", 30)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
