package auton

import (
	"errors"
	"fmt"

	"github.com/bot-go-brr/brain/internal"
	"github.com/bot-go-brr/brain/internal/configuration"
	"github.com/bot-go-brr/brain/internal/inst"
	"github.com/bot-go-brr/brain/internal/persistence"
	"github.com/spf13/cobra"
)

var programId string

var Command = &cobra.Command{
	Use:              "auton",
	Short:            "Autonomous program related commands",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&programId,
		"id", "i",
		"",
		"Routine ID as specified in the config, or program key",
	)
}

func openStorage() (persistence.Persistence, error) {
	configuration.ReadConfigFile()
	return internal.OpenStorage(configuration.CurrentConfig)
}

func storageLocation(config configuration.Configuration) string {
	if config.Storage.Kind == persistence.KindFile {
		return config.Storage.Dir
	}
	return config.DbPath
}

func requireId() error {
	if len(programId) == 0 {
		return errors.New("missing program id, use -i")
	}
	return nil
}

func getRoutineConfig(id string, routines []configuration.RoutineConfig) (*configuration.RoutineConfig, error) {
	var availableRoutineIds []string
	for _, routineConf := range routines {
		availableRoutineIds = append(availableRoutineIds, routineConf.ID)
		if id == routineConf.ID {
			return &routineConf, nil
		}
	}

	return nil, fmt.Errorf("no routine with id found: %s, options: %s", id, availableRoutineIds)
}

func beltText(i inst.Instruction) string {
	switch {
	case !i.BeltActive:
		return "off"
	case i.BeltUp:
		return "up"
	default:
		return "down"
	}
}
