package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bot-go-brr/brain/internal/api"
	"github.com/bot-go-brr/brain/internal/configuration"
	"github.com/bot-go-brr/brain/internal/controller"
	"github.com/bot-go-brr/brain/internal/hardware"
	"github.com/bot-go-brr/brain/internal/persistence"
	"github.com/bot-go-brr/brain/internal/statistics"
	"github.com/bot-go-brr/brain/internal/telemetry"
	"github.com/bot-go-brr/brain/internal/ui"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oklog/run"
)

const ControllerId = "robot"

func RunDaemon() {
	config := configuration.CurrentConfig

	pers, err := OpenStorage(config)
	if err != nil {
		ui.Fatal("Unable to initialize program storage: %v", err)
	}

	hw, closeHardware, err := OpenHardware(config)
	if err != nil {
		ui.Fatal("Unable to connect to the robot brain: %v", err)
	}
	defer func() {
		if err := closeHardware(); err != nil {
			ui.Warning("Error closing hardware connection: %v", err)
		}
	}()

	store := telemetry.NewStore()
	robot, err := NewController(config, hw, pers, store)
	if err != nil {
		ui.Fatal("Unable to create controller: %v", err)
	}

	statistics.Register(
		statistics.NewControllerCollector(robot),
		statistics.NewDriveCollector(store),
	)

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		if config.Statistics.Enabled {
			// === Prometheus Exporter
			port := config.Statistics.Port
			if port <= 0 || port >= 65535 {
				port = 9000
			}
			addWebserver(ctx, &g, "statistics", api.CreateMetricsServer(), fmt.Sprintf(":%d", port))
		}
	}
	{
		if config.Api.Enabled {
			// === REST Api
			restServer := api.CreateRestService(store, pers)
			addWebserver(ctx, &g, "api", restServer, fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port))
		}
	}
	{
		// === match
		g.Add(func() error {
			err := robot.RunMatch(ctx)
			ui.Info("Controller %s stopped.", robot.GetId())
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Something went wrong: %v", err)
			}
			cancel()
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
	}
}

func addWebserver(ctx context.Context, g *run.Group, name string, server *echo.Echo, addr string) {
	g.Add(func() error {
		go func() {
			if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
				ui.Error("Cannot start %s server on %s (%v)", name, addr, err)
			}
		}()
		<-ctx.Done()
		ui.Info("Stopping %s server...", name)
		timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		return server.Shutdown(timeoutCtx)
	}, func(err error) {
		if err != nil {
			ui.Warning("Error stopping %s server: %v", name, err)
		} else {
			ui.Info("%s server stopped.", name)
		}
	})
}

// OpenStorage creates and initializes the program storage selected by storage.kind
func OpenStorage(config configuration.Configuration) (persistence.Persistence, error) {
	pers, err := persistence.NewStorage(config.Storage.Kind, config.DbPath, config.Storage.Dir)
	if err != nil {
		return nil, err
	}
	if config.Storage.Kind == persistence.KindFile {
		ui.Info("Storing programs as files in %s", config.Storage.Dir)
	} else {
		ui.Info("Storing programs in %s", config.DbPath)
	}
	if err := pers.Init(); err != nil {
		return nil, fmt.Errorf("init %s storage: %w", config.Storage.Kind, err)
	}
	return pers, nil
}

// OpenHardware connects to the robot brain, or creates a simulator when
// hardware.simulate is set. The returned func releases the connection.
func OpenHardware(config configuration.Configuration) (hardware.Interface, func() error, error) {
	if config.Hardware.Simulate {
		ui.Info("Using simulated hardware")
		return hardware.NewSimulator(SimulatorConfig(config)), func() error { return nil }, nil
	}

	serialConfig := config.Hardware.Serial
	ui.Info("Connecting to robot brain at %s (%d baud)", serialConfig.Path, serialConfig.BaudRate)
	brain, err := hardware.OpenSerialBrain(serialConfig.Path, serialConfig.BaudRate, serialConfig.ReadTimeout)
	if err != nil {
		return nil, nil, err
	}
	return brain, brain.Close, nil
}

// SimulatorConfig derives the simulated drive base from the configured one
func SimulatorConfig(config configuration.Configuration) hardware.SimulatorConfig {
	simConfig := hardware.DefaultSimulatorConfig()
	simConfig.Left = configuration.MotorGroup(config.Hardware.Left)
	simConfig.Right = configuration.MotorGroup(config.Hardware.Right)
	simConfig.LeftSensor = config.Hardware.LeftRotation
	simConfig.RightSensor = config.Hardware.RightRotation
	simConfig.WheelDiameter = config.Odometry.WheelDiameter
	if config.Hardware.TrackWidth > 0 {
		simConfig.TrackWidth = config.Hardware.TrackWidth
	}
	return simConfig
}

// NewController wires the controller with program storage, recording and telemetry
func NewController(
	config configuration.Configuration,
	hw hardware.Interface,
	pers persistence.Persistence,
	store *telemetry.Store,
) (*controller.Controller, error) {
	options := []controller.Option{
		controller.WithTelemetry(store),
	}

	if len(config.Autonomous.Routine) > 0 {
		keys, err := config.ResolveRoutine(config.Autonomous.Routine)
		if err != nil {
			return nil, err
		}
		ui.Info("Autonomous routine '%s' plays: %v", config.Autonomous.Routine, keys)
		options = append(options, controller.WithProgram(pers, keys...))
	} else {
		ui.Warning("No autonomous routine configured, the robot will idle during the autonomous phase")
	}

	if config.Recording.Enabled {
		options = append(options, controller.WithRecording(pers, RecordingKey(config.Recording)))
	}

	return controller.New(ControllerId, hw, controller.ParamsFromConfig(config), options...), nil
}

// RecordingKey names recordings by the configured key, or a random "rec-<uuid>"
func RecordingKey(config configuration.RecordingConfig) func() string {
	return func() string {
		if len(config.Key) > 0 {
			return config.Key
		}
		return "rec-" + uuid.New().String()
	}
}
