package joystick

import (
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "joystick",
	Short:            "Joystick related commands",
	TraverseChildren: true,
}
