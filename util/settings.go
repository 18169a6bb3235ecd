package util

import (
	"crypto/rand"
	"errors"
	"reflect"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const ENV_PREFIX = "SMARTHOUSE"

var Config = viper.New()

var config_listeners []func()

func RegisterNewConfigListener(new_listener func()) {
	for _, listener := range config_listeners {
		if reflect.ValueOf(new_listener).Pointer() == reflect.ValueOf(listener).Pointer() {
			Logger.Warn().Msg("config listener already registered")
			return
		}
	}
	config_listeners = append(config_listeners, new_listener)
}

func OnNewConfig() {
	for _, listener := range config_listeners {
		listener()
	}
}

func GetRandString(n int) string {
	const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, n)
	for i := range b {
		randBytes := make([]byte, 1)
		if _, err := rand.Read(randBytes); err != nil {
			b[i] = letterBytes[i%len(letterBytes)]
		} else {
			b[i] = letterBytes[int(randBytes[0])%len(letterBytes)]
		}
	}
	return string(b)
}

func setDefaults() {
	Config.SetDefault("log_level", "info")
	Config.SetDefault("watch_config", false)

	Config.SetDefault("mqtt.enabled", false)
	Config.SetDefault("mqtt.broker_uri", "tcp://mqtt")
	Config.SetDefault("mqtt.cleansess", false)
	Config.SetDefault("mqtt.id_base", "smarthouse")
	Config.SetDefault("mqtt.username", "")
	Config.SetDefault("mqtt.password", "")
	Config.SetDefault("mqtt.report_topic", "smarthouse/report")
	Config.SetDefault("mqtt.ha_advertise", false)

	Config.SetDefault("monitor.enabled", false)
	Config.SetDefault("monitor.port", 8080)
}

// SetupConfig loads defaults, then the config file (configFile if given,
// otherwise smarthouse.* from the usual places), then the environment.
// A missing config file is not an error.
func SetupConfig(configFile string) error {
	setDefaults()

	if configFile != "" {
		Config.SetConfigFile(configFile)
	} else {
		Config.SetConfigName("smarthouse")
		Config.AddConfigPath("./")
		Config.AddConfigPath("./config")
		Config.AddConfigPath("/etc")
		Config.AddConfigPath("/smarthouse")
	}

	if err := Config.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return err
		}
		Logger.Debug().Msg("no config file found, using defaults")
	} else {
		Logger.Debug().Msgf("using config file %s", Config.ConfigFileUsed())
	}

	// environment variables: SMARTHOUSE_MQTT_ENABLED -> mqtt.enabled
	Config.SetEnvPrefix(ENV_PREFIX)
	Config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Config.AutomaticEnv()

	if Config.GetBool("watch_config") && Config.ConfigFileUsed() != "" {
		Config.WatchConfig()
		Config.OnConfigChange(func(e fsnotify.Event) {
			Logger.Info().Msgf("Config file changed: %v", e.Name)
			Logger.Debug().Msgf("Config Additional Info: %v", e.String())
			OnNewConfig()
		})
	}
	return nil
}
