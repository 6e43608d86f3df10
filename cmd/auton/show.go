package auton

import (
	"fmt"
	"strconv"

	"github.com/bot-go-brr/brain/cmd/global"
	autonomous "github.com/bot-go-brr/brain/internal/auton"
	"github.com/bot-go-brr/brain/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the entries of a stored program",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireId(); err != nil {
			return err
		}
		pers, err := openStorage()
		if err != nil {
			return err
		}

		data, err := pers.Read(programId)
		if err != nil {
			return fmt.Errorf("program %s: %w", programId, err)
		}
		program, err := autonomous.DecodeProgram(data)
		if err != nil {
			return fmt.Errorf("program %s: %w", programId, err)
		}

		var rows [][]string
		for idx, entry := range program {
			i := entry.Instruction
			rows = append(rows, []string{
				strconv.Itoa(idx),
				strconv.Itoa(int(i.TargetAngle)),
				strconv.Itoa(int(i.TargetPosition)),
				strconv.Itoa(int(i.Thrust)),
				beltText(i),
				strconv.FormatBool(i.SolenoidActive),
				strconv.FormatUint(uint64(entry.Duration), 10),
			})
		}

		tableString, err := global.RenderTable([]string{"#", "Angle", "Position", "Thrust", "Belt", "Solenoid", "Ticks"}, rows)
		if err != nil {
			return err
		}
		ui.Printfln(tableString)
		ui.Printfln(autonomous.FormatProgram(program))
		return nil
	},
}

func init() {
	Command.AddCommand(showCmd)
}
