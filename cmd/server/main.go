package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vidsync/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 8080,
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	mediaRoot = configVar[string]{
		envKey:       "SERVER_MEDIA_ROOT",
		flagKey:      "media-root",
		defaultValue: "./videos",
	}
	chunkWindow = configVar[int64]{
		envKey:       "SERVER_CHUNK_WINDOW",
		flagKey:      "chunk-window",
		defaultValue: 1 << 20,
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.String(mediaRoot.flagKey, mediaRoot.defaultValue, "Directory holding the served media files")
	pflag.Int64(chunkWindow.flagKey, chunkWindow.defaultValue, "Maximum bytes served for an open-ended range request")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(mediaRoot.flagKey, mediaRoot.envKey)
	viper.BindEnv(chunkWindow.flagKey, chunkWindow.envKey)

	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(mediaRoot.flagKey, mediaRoot.defaultValue)
	viper.SetDefault(chunkWindow.flagKey, chunkWindow.defaultValue)

	return &app.AppConfig{
		Host:        viper.GetString(host.flagKey),
		Port:        viper.GetInt(port.flagKey),
		LogLevel:    viper.GetString(logLevel.flagKey),
		MediaRoot:   viper.GetString(mediaRoot.flagKey),
		ChunkWindow: viper.GetInt64(chunkWindow.flagKey),
	}
}

func main() {
	_ = godotenv.Load(".env")

	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
