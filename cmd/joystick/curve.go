package joystick

import (
	"fmt"
	"strconv"

	"github.com/bot-go-brr/brain/cmd/global"
	"github.com/bot-go-brr/brain/internal/configuration"
	stick "github.com/bot-go-brr/brain/internal/joystick"
	"github.com/bot-go-brr/brain/internal/ui"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

var sampleStep int

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the configured joystick response curve to console",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configuration.ReadConfigFile()
		drive := configuration.CurrentConfig.Drive
		if drive.K1 <= 0 {
			return fmt.Errorf("drive.k1 must be positive, got %v", drive.K1)
		}
		shaper := drive.Shaper()

		tableString, err := global.RenderTable(
			[]string{"K1", "Base", "Max Voltage"},
			[][]string{{
				strconv.FormatFloat(shaper.K1, 'f', 2, 64),
				strconv.FormatFloat(shaper.Base, 'f', 5, 64),
				strconv.Itoa(stick.Voltage(shaper.ShapeRaw(stick.MaxRaw))),
			}},
		)
		if err != nil {
			return err
		}
		ui.Printfln(tableString)

		values := CurveValues(shaper)
		graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption("mV / stick"))
		ui.Printfln(graph)

		step := sampleStep
		if step <= 0 {
			step = 16
		}
		var rows [][]string
		for raw := 0; raw <= stick.MaxRaw; raw += step {
			rows = append(rows, []string{strconv.Itoa(raw), strconv.Itoa(stick.Voltage(shaper.ShapeRaw(raw)))})
		}
		if (stick.MaxRaw % step) != 0 {
			rows = append(rows, []string{strconv.Itoa(stick.MaxRaw), strconv.Itoa(stick.Voltage(shaper.ShapeRaw(stick.MaxRaw)))})
		}
		tableString, err = global.RenderTable([]string{"Stick", "mV"}, rows)
		if err != nil {
			return err
		}
		ui.Printfln(tableString)
		return nil
	},
}

// CurveValues samples the response for every raw stick value from 0 to MaxRaw
func CurveValues(shaper stick.Shaper) []float64 {
	values := make([]float64, 0, stick.MaxRaw+1)
	for raw := 0; raw <= stick.MaxRaw; raw++ {
		values = append(values, shaper.ShapeRaw(raw))
	}
	return values
}

func init() {
	curveCmd.Flags().IntVarP(&sampleStep, "step", "", 16, "Stick value step of the sample table")
	Command.AddCommand(curveCmd)
}
