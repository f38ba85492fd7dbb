package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getsops/sops/v3/decrypt"
	"github.com/joho/godotenv"
	"github.com/paulvitic/hotel-booking/amqp"
	"github.com/paulvitic/hotel-booking/mongoDb"
	"github.com/paulvitic/hotel-booking/tracing"
	"github.com/spf13/viper"
)

const envPrefix = "HOTEL"

type ServerProperties struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type LoggingProperties struct {
	Level string `mapstructure:"level"`
}

type AdmissionProperties struct {
	RejectPastDates bool `mapstructure:"rejectPastDates"`
}

type RegistryProperties struct {
	// Mode is "memory" (scan) or "sql" (set-based query).
	Mode string `mapstructure:"mode"`
}

type SqlProperties struct {
	// Driver is "sqlite3" or "postgres".
	Driver string `mapstructure:"driver"`
	Dsn    string `mapstructure:"dsn"`
}

type EventsProperties struct {
	// Publisher is "none", "inMemory" or "amqp".
	Publisher string `mapstructure:"publisher"`
	// Log is "none", "inMemory" or "mongoDb".
	Log        string `mapstructure:"log"`
	BufferSize int    `mapstructure:"bufferSize"`
}

type CacheProperties struct {
	AvailabilityTtl time.Duration `mapstructure:"availabilityTtl"`
}

type SeedProperties struct {
	Enabled bool   `mapstructure:"enabled"`
	File    string `mapstructure:"file"`
}

type Properties struct {
	Server    ServerProperties      `mapstructure:"server"`
	Logging   LoggingProperties     `mapstructure:"logging"`
	Admission AdmissionProperties   `mapstructure:"admission"`
	Registry  RegistryProperties    `mapstructure:"registry"`
	Sql       SqlProperties         `mapstructure:"sql"`
	Events    EventsProperties      `mapstructure:"events"`
	Amqp      amqp.Configuration    `mapstructure:"amqp"`
	MongoDb   mongoDb.Configuration `mapstructure:"mongoDb"`
	Cache     CacheProperties       `mapstructure:"cache"`
	Tracing   tracing.Config        `mapstructure:"tracing"`
	Seed      SeedProperties        `mapstructure:"seed"`

	// FilePath is the properties file the values were read from, empty when only defaults apply.
	FilePath string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	tracingDefaults := tracing.DefaultConfig()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.level", "info")
	v.SetDefault("admission.rejectPastDates", false)
	v.SetDefault("registry.mode", "memory")
	v.SetDefault("sql.driver", "sqlite3")
	v.SetDefault("sql.dsn", "file:hotel.db")
	v.SetDefault("events.publisher", "none")
	v.SetDefault("events.log", "inMemory")
	v.SetDefault("events.bufferSize", 256)
	v.SetDefault("amqp.host", "localhost")
	v.SetDefault("amqp.port", 5672)
	v.SetDefault("amqp.username", "guest")
	v.SetDefault("amqp.password", "guest")
	v.SetDefault("amqp.virtualHost", "")
	v.SetDefault("amqp.exchange", "hotel.booking")
	v.SetDefault("amqp.queue", "")
	v.SetDefault("mongoDb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongoDb.database", "hotel")
	v.SetDefault("cache.availabilityTtl", "30s")
	v.SetDefault("tracing.enabled", tracingDefaults.Enabled)
	v.SetDefault("tracing.exporter", tracingDefaults.Exporter)
	v.SetDefault("tracing.otlpEndpoint", tracingDefaults.OTLPEndpoint)
	v.SetDefault("tracing.sampleRate", tracingDefaults.SampleRate)
	v.SetDefault("tracing.serviceName", tracingDefaults.ServiceName)
	v.SetDefault("seed.enabled", false)
	v.SetDefault("seed.file", "")
}

// Load reads properties[.<profile>].json, or its SOPS encrypted
// properties[.<profile>].enc.json twin, from dir. A .env file in dir is loaded
// into the environment first, and HOTEL_ prefixed variables override file values.
// Without a profile a missing file is not an error and defaults apply.
func Load(dir string, profile string) (*Properties, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	filePath, isFileEncrypted, err := verifyFilePath(dir, fileNameFor(profile))
	switch {
	case err == nil:
		data, err := readData(filePath, isFileEncrypted)
		if err != nil {
			return nil, err
		}
		v.SetConfigType("json")
		if err = v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", filePath, err)
		}
	case errors.Is(err, os.ErrNotExist) && profile == "":
		filePath = ""
	default:
		return nil, err
	}

	props := new(Properties)
	if err = v.Unmarshal(props); err != nil {
		return nil, fmt.Errorf("decoding properties: %w", err)
	}
	props.FilePath = filePath
	return props, nil
}

func fileNameFor(profile string) string {
	if profile == "" {
		return "properties"
	}
	return "properties." + profile
}

func verifyFilePath(dir string, fileName string) (string, bool, error) {
	filePath := filepath.Join(dir, fileName+".json")
	if _, err := os.Stat(filePath); err == nil {
		return filePath, false, nil
	}

	encryptedPath := filepath.Join(dir, fileName+".enc.json")
	if _, err := os.Stat(encryptedPath); err != nil {
		return "", false, fmt.Errorf("no config file %s or %s: %w", filePath, encryptedPath, os.ErrNotExist)
	}
	return encryptedPath, true, nil
}

func readData(filePath string, isFileEncrypted bool) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", filePath, err)
	}
	if isFileEncrypted {
		return decryptData(data)
	}
	return data, nil
}

func decryptData(data []byte) ([]byte, error) {
	decryptedData, err := decrypt.Data(data, "json")
	if err != nil {
		return nil, fmt.Errorf("decrypting config file: %w", err)
	}
	return decryptedData, nil
}
