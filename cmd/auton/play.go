package auton

import (
	"fmt"
	"time"

	autonomous "github.com/bot-go-brr/brain/internal/auton"
	"github.com/bot-go-brr/brain/internal/configuration"
	"github.com/bot-go-brr/brain/internal/ui"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play back a routine without hardware, printing every tick",
	Long: `Plays the programs of a routine (or a single stored program) the same
way the autonomous phase does, without driving any hardware.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireId(); err != nil {
			return err
		}
		pers, err := openStorage()
		if err != nil {
			return err
		}

		keys := []string{programId}
		if _, ok := configuration.CurrentConfig.FindRoutine(programId); ok {
			keys, err = configuration.CurrentConfig.ResolveRoutine(programId)
			if err != nil {
				return err
			}
		}
		ui.Info("Playing %v", keys)

		player, err := autonomous.LoadPlayer(pers, keys...)
		if err != nil {
			return err
		}

		tickRate := configuration.CurrentConfig.TickRate
		tick := 0
		for {
			entry, _ := player.Cursor()
			i, ok := player.Advance()
			if !ok {
				break
			}
			ui.Printfln("%6d %8v  entry %-4d ag %+4d ps %+6d th %+6d bt %-4s sl %v",
				tick, tickRate*time.Duration(tick), entry,
				i.TargetAngle, i.TargetPosition, i.Thrust, beltText(i), i.SolenoidActive,
			)
			tick++
		}

		if err := player.Err(); err != nil {
			return fmt.Errorf("playback stopped after %d ticks: %w", tick, err)
		}
		ui.Success("Played %d ticks (%v)", tick, tickRate*time.Duration(tick))
		return nil
	},
}

func init() {
	Command.AddCommand(playCmd)
}
