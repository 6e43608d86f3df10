// Package telemetry shares the latest per-tick snapshot of each controller
// with readers outside the control loop (REST api, metrics).
package telemetry

import (
	"time"

	"github.com/bot-go-brr/brain/internal/inst"
	cmap "github.com/orcaman/concurrent-map/v2"
)

type Snapshot struct {
	Controller string    `json:"controller"`
	Phase      string    `json:"phase"`
	Tick       uint64    `json:"tick"`
	Time       time.Time `json:"time"`

	Yaw      float64 `json:"yaw"`
	Position float64 `json:"position"`

	LeftVoltage  int  `json:"leftVoltage"`
	RightVoltage int  `json:"rightVoltage"`
	BeltVoltage  int  `json:"beltVoltage"`
	Solenoid     bool `json:"solenoid"`

	// Instruction is the instruction executed (autonomous) or recorded (opcontrol) this tick
	Instruction *inst.Instruction `json:"instruction,omitempty"`
	// ProgramEntry is the cursor of the autonomous player
	ProgramEntry int `json:"programEntry"`
}

// Store holds the latest snapshot of every controller
type Store struct {
	snapshots cmap.ConcurrentMap[string, Snapshot]
}

func NewStore() *Store {
	return &Store{snapshots: cmap.New[Snapshot]()}
}

// Publish replaces the snapshot of the snapshot's controller
func (s *Store) Publish(snapshot Snapshot) {
	s.snapshots.Set(snapshot.Controller, snapshot)
}

func (s *Store) Get(controller string) (Snapshot, bool) {
	return s.snapshots.Get(controller)
}

// All returns the latest snapshot of every controller
func (s *Store) All() map[string]Snapshot {
	return s.snapshots.Items()
}

func (s *Store) Remove(controller string) {
	s.snapshots.Remove(controller)
}
