package auton

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bot-go-brr/brain/internal/configuration"
	"github.com/bot-go-brr/brain/internal/inst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "left.txt")
	source := "# grab the first goal\nag +90; th +6000; c +50;\nth +0; bt +1; c +10;\n"
	require.NoError(t, os.WriteFile(path, []byte(source), 0644))

	// WHEN
	program, err := compile(path)

	// THEN
	require.NoError(t, err)
	assert.Len(t, program, 2)
	assert.Equal(t, uint64(60), program.Ticks())
	assert.Equal(t, int16(90), program[0].Instruction.TargetAngle)
	assert.True(t, program[1].Instruction.BeltActive)
}

func TestCompile_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing\n"), 0644))
	invalid := filepath.Join(dir, "invalid.txt")
	require.NoError(t, os.WriteFile(invalid, []byte("xx +1;\n"), 0644))

	for name, path := range map[string]string{
		"missing": filepath.Join(dir, "missing.txt"),
		"empty":   empty,
		"invalid": invalid,
	} {
		t.Run(name, func(t *testing.T) {
			// WHEN
			program, err := compile(path)

			// THEN
			assert.Error(t, err)
			assert.Nil(t, program)
		})
	}
}

func TestGetRoutineConfig(t *testing.T) {
	// GIVEN
	routines := []configuration.RoutineConfig{{ID: "left"}, {ID: "right", Program: "right-v2"}}

	// WHEN
	routine, err := getRoutineConfig("right", routines)
	_, missingErr := getRoutineConfig("skills", routines)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "right-v2", routine.ProgramKey())
	assert.EqualError(t, missingErr, "no routine with id found: skills, options: [left right]")
}

func TestBeltText(t *testing.T) {
	assert.Equal(t, "off", beltText(inst.Instruction{BeltUp: true}))
	assert.Equal(t, "up", beltText(inst.Instruction{BeltActive: true, BeltUp: true}))
	assert.Equal(t, "down", beltText(inst.Instruction{BeltActive: true}))
}

func TestStorageLocation(t *testing.T) {
	// GIVEN
	bolt := configuration.Configuration{DbPath: "/etc/brain/brain.db"}
	files := configuration.Configuration{
		DbPath:  "/etc/brain/brain.db",
		Storage: configuration.StorageConfig{Kind: "file", Dir: "/media/sd/programs"},
	}

	// WHEN
	boltLocation := storageLocation(bolt)
	fileLocation := storageLocation(files)

	// THEN
	assert.Equal(t, "/etc/brain/brain.db", boltLocation)
	assert.Equal(t, "/media/sd/programs", fileLocation)
}
