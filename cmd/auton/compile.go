package auton

import (
	"fmt"
	"os"
	"time"

	autonomous "github.com/bot-go-brr/brain/internal/auton"
	"github.com/bot-go-brr/brain/internal/configuration"
	"github.com/bot-go-brr/brain/internal/ui"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile the authoring file of a routine and store the program",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireId(); err != nil {
			return err
		}
		pers, err := openStorage()
		if err != nil {
			return err
		}

		routine, err := getRoutineConfig(programId, configuration.CurrentConfig.Routines)
		if err != nil {
			return err
		}
		if len(routine.Source) == 0 {
			return fmt.Errorf("routine %s has no source file", routine.ID)
		}

		program, err := compile(routine.Source)
		if err != nil {
			return err
		}

		key := routine.ProgramKey()
		if err := pers.Write(key, program.Encode()); err != nil {
			return err
		}

		duration := configuration.CurrentConfig.TickRate * time.Duration(program.Ticks())
		ui.Success("Stored '%s' as program '%s': %d entries, %d ticks (%v)", routine.Source, key, len(program), program.Ticks(), duration)
		return nil
	},
}

func compile(path string) (autonomous.Program, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	program, err := autonomous.ParseProgram(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(program) == 0 {
		return nil, fmt.Errorf("%s: program is empty", path)
	}
	return program, nil
}

func init() {
	Command.AddCommand(compileCmd)
}
