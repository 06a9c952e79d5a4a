package debug

import (
	"fmt"
	"time"
)

// LogLevel represents the severity level of a log entry.
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelNone:
		return "NONE"
	case LogLevelError:
		return "ERROR"
	case LogLevelWarning:
		return "WARNING"
	case LogLevelInfo:
		return "INFO"
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// Component identifies the subsystem that produced a log entry.
type Component string

const (
	ComponentSequencer Component = "Sequencer"
	ComponentBroadcast Component = "Broadcaster"
	ComponentProcessor Component = "Processor"
	ComponentVoice     Component = "Voice"
	ComponentReverb    Component = "Reverb"
	ComponentMIDI      Component = "MIDI"
	ComponentProject   Component = "Project"
	ComponentHost      Component = "Host"
	ComponentUI        Component = "UI"
	ComponentSystem    Component = "System"
)

// LogEntry represents a single log entry kept in the ring buffer for the
// UI-side log viewer.
type LogEntry struct {
	Timestamp time.Time
	Component Component
	Level     LogLevel
	Message   string
	Data      map[string]interface{} // Optional structured data
}

// Format formats the log entry as a string.
func (e *LogEntry) Format() string {
	timestamp := e.Timestamp.Format("15:04:05.000")
	if len(e.Data) == 0 {
		return fmt.Sprintf("[%s] [%s] %s: %s", timestamp, e.Component, e.Level, e.Message)
	}
	return fmt.Sprintf("[%s] [%s] %s: %s %v", timestamp, e.Component, e.Level, e.Message, e.Data)
}
