package cmd

import (
	"github.com/bot-go-brr/brain/cmd/global"
	"github.com/bot-go-brr/brain/internal/configuration"
	"github.com/bot-go-brr/brain/internal/hardware"
	"github.com/bot-go-brr/brain/internal/ui"
	"github.com/bot-go-brr/brain/internal/util"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect devices",
	Long:  `Lists all serial devices a robot brain could be connected to`,
	Run: func(cmd *cobra.Command, args []string) {
		configuration.ReadConfigFile()

		ports, err := hardware.ListSerialPorts()
		if err != nil {
			ui.Fatal("Error detecting serial devices: %v", err)
		}
		if len(ports) == 0 {
			ui.Warning("No serial devices found")
			return
		}

		configured := configuration.CurrentConfig.Hardware.Serial.Path
		var rows [][]string
		for _, port := range ports {
			marker := ""
			if port == configured {
				marker = "*"
			}
			rows = append(rows, []string{port, marker})
		}

		if !util.ContainsString(ports, configured) && !configuration.CurrentConfig.Hardware.Simulate {
			ui.Warning("Configured serial device %s was not found", configured)
		}

		tableString, err := global.RenderTable([]string{"Device", "Configured"}, rows)
		if err != nil {
			ui.Fatal("Error printing table: %v", err)
		}
		ui.Printfln(tableString)
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
