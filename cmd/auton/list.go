package auton

import (
	"strconv"
	"time"

	"github.com/bot-go-brr/brain/cmd/global"
	"github.com/bot-go-brr/brain/internal/configuration"
	autonomous "github.com/bot-go-brr/brain/internal/auton"
	"github.com/bot-go-brr/brain/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all stored autonomous programs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pers, err := openStorage()
		if err != nil {
			return err
		}

		programs, err := pers.List()
		if err != nil {
			return err
		}
		if len(programs) == 0 {
			ui.Warning("No programs stored in %s", storageLocation(configuration.CurrentConfig))
			return nil
		}

		var rows [][]string
		for _, info := range programs {
			entries, duration := "N/A", "N/A"
			data, err := pers.Read(info.Key)
			if err == nil {
				program, err := autonomous.DecodeProgram(data)
				if err == nil {
					entries = strconv.Itoa(len(program))
					duration = (configuration.CurrentConfig.TickRate * time.Duration(program.Ticks())).String()
				} else {
					ui.Debug("Unable to decode program %s: %v", info.Key, err)
					entries = "malformed"
				}
			}
			rows = append(rows, []string{
				info.Key, strconv.Itoa(info.Size), entries, duration, info.Updated.Format(time.RFC3339),
			})
		}

		tableString, err := global.RenderTable([]string{"Key", "Bytes", "Entries", "Duration", "Updated"}, rows)
		if err != nil {
			return err
		}
		ui.Printfln(tableString)
		return nil
	},
}

func init() {
	Command.AddCommand(listCmd)
}
