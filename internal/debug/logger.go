package debug

import (
	"fmt"
	"os"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// Logger is the centralized logging system shared by every subsystem: a
// circular buffer of entries for the UI-side log viewer, per-component
// enable flags (logging is opt-in), and a non-blocking channel so the
// audio callback never stalls on a slow sink. Formatted emission is
// delegated to charmbracelet/log so operators get colorized, leveled
// stderr output instead of raw fmt.
type Logger struct {
	entries    []LogEntry
	entriesMu  sync.RWMutex
	maxEntries int
	writeIndex int
	entryCount int

	componentEnabled map[Component]bool
	componentMu      sync.RWMutex

	minLevel LogLevel
	levelMu  sync.RWMutex

	logChan chan LogEntry

	shutdown chan struct{}
	wg       sync.WaitGroup

	sink *charmlog.Logger
}

// NewLogger creates a new logger instance with a ring buffer of the given
// capacity.
func NewLogger(maxEntries int) *Logger {
	if maxEntries < 100 {
		maxEntries = 100
	}

	sink := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
	})

	logger := &Logger{
		entries:          make([]LogEntry, maxEntries),
		maxEntries:       maxEntries,
		componentEnabled: make(map[Component]bool),
		minLevel:         LogLevelInfo,
		logChan:          make(chan LogEntry, 1000),
		shutdown:         make(chan struct{}),
		sink:             sink,
	}

	for _, c := range []Component{
		ComponentSequencer, ComponentBroadcast, ComponentProcessor,
		ComponentVoice, ComponentReverb, ComponentMIDI, ComponentProject,
		ComponentHost, ComponentUI, ComponentSystem,
	} {
		logger.componentEnabled[c] = c == ComponentSystem
	}

	logger.wg.Add(1)
	go logger.processLogs()

	return logger
}

func (l *Logger) processLogs() {
	defer l.wg.Done()

	for {
		select {
		case entry := <-l.logChan:
			l.addEntry(entry)
		case <-l.shutdown:
			for {
				select {
				case entry := <-l.logChan:
					l.addEntry(entry)
				default:
					return
				}
			}
		}
	}
}

func (l *Logger) addEntry(entry LogEntry) {
	l.entriesMu.Lock()
	l.entries[l.writeIndex] = entry
	l.writeIndex = (l.writeIndex + 1) % l.maxEntries
	if l.entryCount < l.maxEntries {
		l.entryCount++
	}
	l.entriesMu.Unlock()

	l.emit(entry)
}

func (l *Logger) emit(entry LogEntry) {
	fields := make([]interface{}, 0, len(entry.Data)*2+2)
	fields = append(fields, "component", string(entry.Component))
	for k, v := range entry.Data {
		fields = append(fields, k, v)
	}
	switch entry.Level {
	case LogLevelError:
		l.sink.Error(entry.Message, fields...)
	case LogLevelWarning:
		l.sink.Warn(entry.Message, fields...)
	case LogLevelInfo:
		l.sink.Info(entry.Message, fields...)
	default:
		l.sink.Debug(entry.Message, fields...)
	}
}

// Log logs a message with the given component and level. Disabled
// components and entries below the minimum level are dropped before the
// channel send, so the hot path for a muted component is a couple of
// map/atomic reads.
func (l *Logger) Log(component Component, level LogLevel, message string, data map[string]interface{}) {
	l.componentMu.RLock()
	enabled := l.componentEnabled[component]
	l.componentMu.RUnlock()
	if !enabled {
		return
	}

	l.levelMu.RLock()
	minLevel := l.minLevel
	l.levelMu.RUnlock()
	if level > minLevel {
		return
	}

	entry := LogEntry{
		Component: component,
		Level:     level,
		Message:   message,
		Data:      data,
	}

	select {
	case l.logChan <- entry:
	default:
		// Channel full: drop rather than block the caller.
	}
}

// Logf logs a formatted message.
func (l *Logger) Logf(component Component, level LogLevel, format string, args ...interface{}) {
	l.Log(component, level, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) LogSequencer(level LogLevel, message string, data map[string]interface{}) {
	l.Log(ComponentSequencer, level, message, data)
}
func (l *Logger) LogBroadcast(level LogLevel, message string, data map[string]interface{}) {
	l.Log(ComponentBroadcast, level, message, data)
}
func (l *Logger) LogProcessor(level LogLevel, message string, data map[string]interface{}) {
	l.Log(ComponentProcessor, level, message, data)
}
func (l *Logger) LogVoice(level LogLevel, message string, data map[string]interface{}) {
	l.Log(ComponentVoice, level, message, data)
}
func (l *Logger) LogReverb(level LogLevel, message string, data map[string]interface{}) {
	l.Log(ComponentReverb, level, message, data)
}
func (l *Logger) LogMIDI(level LogLevel, message string, data map[string]interface{}) {
	l.Log(ComponentMIDI, level, message, data)
}
func (l *Logger) LogProject(level LogLevel, message string, data map[string]interface{}) {
	l.Log(ComponentProject, level, message, data)
}
func (l *Logger) LogHost(level LogLevel, message string, data map[string]interface{}) {
	l.Log(ComponentHost, level, message, data)
}
func (l *Logger) LogUI(level LogLevel, message string, data map[string]interface{}) {
	l.Log(ComponentUI, level, message, data)
}
func (l *Logger) LogSystem(level LogLevel, message string, data map[string]interface{}) {
	l.Log(ComponentSystem, level, message, data)
}

func (l *Logger) LogSequencerf(level LogLevel, format string, args ...interface{}) {
	l.Logf(ComponentSequencer, level, format, args...)
}
func (l *Logger) LogProcessorf(level LogLevel, format string, args ...interface{}) {
	l.Logf(ComponentProcessor, level, format, args...)
}
func (l *Logger) LogVoicef(level LogLevel, format string, args ...interface{}) {
	l.Logf(ComponentVoice, level, format, args...)
}
func (l *Logger) LogMIDIf(level LogLevel, format string, args ...interface{}) {
	l.Logf(ComponentMIDI, level, format, args...)
}
func (l *Logger) LogProjectf(level LogLevel, format string, args ...interface{}) {
	l.Logf(ComponentProject, level, format, args...)
}
func (l *Logger) LogSystemf(level LogLevel, format string, args ...interface{}) {
	l.Logf(ComponentSystem, level, format, args...)
}

// GetEntries returns a copy of all log entries, oldest first.
func (l *Logger) GetEntries() []LogEntry {
	l.entriesMu.RLock()
	defer l.entriesMu.RUnlock()

	if l.entryCount == 0 {
		return []LogEntry{}
	}

	entries := make([]LogEntry, l.entryCount)
	if l.entryCount < l.maxEntries {
		copy(entries, l.entries[:l.entryCount])
	} else {
		for i := 0; i < l.entryCount; i++ {
			idx := (l.writeIndex + i) % l.maxEntries
			entries[i] = l.entries[idx]
		}
	}
	return entries
}

// GetRecentEntries returns the most recent count entries.
func (l *Logger) GetRecentEntries(count int) []LogEntry {
	all := l.GetEntries()
	if count >= len(all) {
		return all
	}
	return all[len(all)-count:]
}

// SetComponentEnabled enables or disables logging for a component.
func (l *Logger) SetComponentEnabled(component Component, enabled bool) {
	l.componentMu.Lock()
	defer l.componentMu.Unlock()
	l.componentEnabled[component] = enabled
}

// IsComponentEnabled reports whether a component is enabled.
func (l *Logger) IsComponentEnabled(component Component) bool {
	l.componentMu.RLock()
	defer l.componentMu.RUnlock()
	return l.componentEnabled[component]
}

// SetMinLevel sets the minimum log level that is recorded/emitted.
func (l *Logger) SetMinLevel(level LogLevel) {
	l.levelMu.Lock()
	defer l.levelMu.Unlock()
	l.minLevel = level
}

// Shutdown stops the logger and waits for queued entries to drain.
func (l *Logger) Shutdown() {
	close(l.shutdown)
	l.wg.Wait()
}
