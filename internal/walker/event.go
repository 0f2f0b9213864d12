package walker

import (
	"io/fs"
)

// Kind identifies the type of a walk event.
type Kind int

const (
	KindDirectory Kind = iota + 1
	KindFile
	KindError
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	case KindError:
		return "error"
	case KindEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Event is a single traversal notification. Path and Info are set for
// Directory and File events; Err is set for Error events. Path is also set on
// Error events that belong to a specific path.
type Event struct {
	Kind Kind
	Path string
	Info fs.FileInfo
	Err  error
}

func directoryEvent(path string, info fs.FileInfo) Event {
	return Event{Kind: KindDirectory, Path: path, Info: info}
}

func fileEvent(path string, info fs.FileInfo) Event {
	return Event{Kind: KindFile, Path: path, Info: info}
}

func errorEvent(path string, err error) Event {
	return Event{Kind: KindError, Path: path, Err: err}
}

func endEvent() Event {
	return Event{Kind: KindEnd}
}
