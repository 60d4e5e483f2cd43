package command

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the full arm command at one instant. It is a flat value type:
// two snapshots with the same field values compare equal with ==, which is
// what the dispatcher's change gate relies on.
type Snapshot struct {
	Gripper  EffectorMode
	Roller   EffectorMode
	Wrist    int
	Elbow    AxisCommand
	Shoulder AxisCommand
	Base     AxisCommand
}

// Default returns the snapshot transmitted after a reset: everything
// stopped, wrist centered.
func Default() Snapshot {
	return Snapshot{Wrist: WristCenter}
}

// MarshalJSON encodes the snapshot as the fixed positional array the remote
// controller expects:
//
//	[gripper, roller, wrist, [eDir,eMag], [sDir,sMag], [bDir,bMag]]
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{
		int(s.Gripper),
		int(s.Roller),
		s.Wrist,
		[2]int{s.Elbow.Dir, s.Elbow.Magnitude},
		[2]int{s.Shoulder.Dir, s.Shoulder.Magnitude},
		[2]int{s.Base.Dir, s.Base.Magnitude},
	})
}

// UnmarshalJSON decodes the positional array form.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse command array: %w", err)
	}
	if len(raw) != 6 {
		return fmt.Errorf("command array has %d elements, want 6", len(raw))
	}

	var gripper, roller, wrist int
	for i, dst := range []*int{&gripper, &roller, &wrist} {
		if err := json.Unmarshal(raw[i], dst); err != nil {
			return fmt.Errorf("command element %d: %w", i, err)
		}
	}

	var elbow, shoulder, base [2]int
	for i, dst := range []*[2]int{&elbow, &shoulder, &base} {
		if err := json.Unmarshal(raw[i+3], dst); err != nil {
			return fmt.Errorf("command element %d: %w", i+3, err)
		}
	}

	*s = Snapshot{
		Gripper:  EffectorMode(gripper),
		Roller:   EffectorMode(roller),
		Wrist:    wrist,
		Elbow:    AxisCommand{Dir: elbow[0], Magnitude: elbow[1]},
		Shoulder: AxisCommand{Dir: shoulder[0], Magnitude: shoulder[1]},
		Base:     AxisCommand{Dir: base[0], Magnitude: base[1]},
	}
	return nil
}
