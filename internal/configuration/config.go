package configuration

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bot-go-brr/brain/internal/persistence"
	"github.com/bot-go-brr/brain/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Configuration struct {
	DbPath  string        `json:"dbPath"`
	Storage StorageConfig `json:"storage"`

	// TickRate is the period of one control tick
	TickRate time.Duration `json:"tickRate"`

	Hardware   HardwareConfig   `json:"hardware"`
	Drive      DriveConfig      `json:"drive"`
	Odometry   OdometryConfig   `json:"odometry"`
	Pid        PidConfig        `json:"pid"`
	Belt       BeltConfig       `json:"belt"`
	Solenoid   SolenoidConfig   `json:"solenoid"`
	Recording  RecordingConfig  `json:"recording"`
	Autonomous AutonomousConfig `json:"autonomous"`
	Routines   []RoutineConfig  `json:"routines"`
	Match      MatchConfig      `json:"match"`

	Statistics StatisticsConfig `json:"statistics"`
	Api        ApiConfig        `json:"api"`
}

// StorageConfig selects where autonomous programs are kept: the bbolt
// database at dbPath, or one file per program in dir (e.g. an sd card)
type StorageConfig struct {
	Kind string `json:"kind"`
	Dir  string `json:"dir"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("brain")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/brain/")
	}

	viper.SetEnvPrefix("brain")
	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbpath", "/etc/brain/brain.db")
	viper.SetDefault("storage.kind", persistence.KindBolt)
	viper.SetDefault("storage.dir", "/etc/brain/programs")
	viper.SetDefault("tickrate", 50*time.Millisecond)

	viper.SetDefault("hardware.simulate", false)
	viper.SetDefault("hardware.serial.path", "/dev/ttyACM0")
	viper.SetDefault("hardware.serial.baudrate", 115200)
	viper.SetDefault("hardware.serial.readtimeout", 20*time.Millisecond)
	viper.SetDefault("hardware.left", []map[string]interface{}{{"port": 1}, {"port": 2}})
	viper.SetDefault("hardware.right", []map[string]interface{}{{"port": 3, "reverse": true}, {"port": 4, "reverse": true}})
	viper.SetDefault("hardware.leftrotation", 5)
	viper.SetDefault("hardware.rightrotation", 6)
	viper.SetDefault("hardware.trackwidth", 300.0)

	viper.SetDefault("drive.k1", 1024.0)
	viper.SetDefault("drive.maxvoltage", 12000.0)
	viper.SetDefault("drive.turnmultiplier", 0.6)
	viper.SetDefault("drive.precisemultiplier", 0.4)
	viper.SetDefault("drive.dampingfactor", 0.16)
	viper.SetDefault("drive.maxvoltagechange", 0.0)

	viper.SetDefault("odometry.wheeldiameter", 69.85)

	viper.SetDefault("pid.rotation.kp", 200.0)
	viper.SetDefault("pid.rotation.ki", 50.0)
	viper.SetDefault("pid.rotation.predictionwindow", 0.05)
	viper.SetDefault("pid.rotation.saturation", 12000.0)
	viper.SetDefault("pid.position.kp", 60.0)
	viper.SetDefault("pid.position.ki", 10.0)
	viper.SetDefault("pid.position.predictionwindow", 0.05)
	viper.SetDefault("pid.position.saturation", 12000.0)

	viper.SetDefault("belt.motors", []map[string]interface{}{{"port": 7}})
	viper.SetDefault("belt.voltage", 12000)

	viper.SetDefault("solenoid.port", 1)
	viper.SetDefault("solenoid.delay", 10)

	viper.SetDefault("recording.enabled", false)
	viper.SetDefault("recording.key", "")

	viper.SetDefault("autonomous.routine", "")
	viper.SetDefault("routines", []RoutineConfig{})

	viper.SetDefault("match.autonomousduration", 15*time.Second)
	viper.SetDefault("match.opcontrolduration", 105*time.Second)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9001)
}

func ReadConfigFile() {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			ui.Fatal("Error reading config file, %s", err)
		}
		ui.Warning("No configuration file found, using defaults")
	} else {
		// this is only populated _after_ ReadInConfig()
		ui.Info("Using configuration file at: %s", viper.ConfigFileUsed())
	}

	LoadConfig()
}

func LoadConfig() {
	err := viper.Unmarshal(&CurrentConfig, viper.DecodeHook(DecodeHook()))
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}

// DecodeHook is used for every configuration decode
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		portHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// Decode decodes raw configuration values (e.g. a parsed yaml document) the
// same way LoadConfig does
func Decode(input interface{}, config *Configuration) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       DecodeHook(),
		Result:           config,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode configuration: %w", err)
	}
	return nil
}
