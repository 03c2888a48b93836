package livemix

// CommandKind enumerates the control actions carried across the command
// queue.
type CommandKind int

const (
	// CommandSetParam ramps a parameter toward Value.
	CommandSetParam CommandKind = iota

	// CommandBypass toggles the stage at From; Value != 0 bypasses.
	CommandBypass

	// CommandReorder moves the stage at From to position To.
	CommandReorder

	// CommandMute hard-mutes the strip output; Value != 0 mutes.
	CommandMute
)

// Command is one typed control message from a non-real-time thread to
// the audio thread. Commands have no ordering key beyond arrival: the
// queue preserves per-producer FIFO order only.
type Command struct {
	Kind CommandKind

	// Target is the parameter address for CommandSetParam, e.g.
	// "gain_db" or "stage.0.gain_db".
	Target string

	// Value carries the parameter level, or the on/off flag for
	// CommandBypass and CommandMute.
	Value float64

	// From and To carry stage indices for CommandBypass (From only)
	// and CommandReorder.
	From int
	To   int
}

// SetParam builds a parameter-change command.
func SetParam(target string, value float64) Command {
	return Command{Kind: CommandSetParam, Target: target, Value: value}
}

// Bypass builds a stage-bypass command.
func Bypass(stage int, bypassed bool) Command {
	return Command{Kind: CommandBypass, From: stage, Value: boolValue(bypassed)}
}

// Reorder builds a stage-reorder command.
func Reorder(from, to int) Command {
	return Command{Kind: CommandReorder, From: from, To: to}
}

// Mute builds a strip-mute command.
func Mute(muted bool) Command {
	return Command{Kind: CommandMute, Value: boolValue(muted)}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
