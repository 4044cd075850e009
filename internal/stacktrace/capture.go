package stacktrace

import "runtime"

// maxDepth bounds the number of program counters collected per capture.
// Redirect call chains are shallow; 64 frames is far more than any
// handler-to-dispatch path needs while keeping capture cost flat.
const maxDepth = 64

// Frame is one call record in a captured stack: the function that was
// called, and the file and line of the call site that invoked it.
// Function arguments are never captured.
type Frame struct {
	// File is the source file of the call site, empty for the outermost
	// frame whose caller is unknown.
	File string

	// Line is the line of the call site, zero when File is empty.
	Line int

	// Function is the fully qualified name of the called function,
	// e.g. "github.com/BeAPI/redirect-loop/internal/hook.(*Registry).Redirect".
	Function string

	// Index is the frame's position in the capture, zero for the most
	// recent call.
	Index int
}

// Capture returns the current goroutine's stack as ordered call records,
// most recent call first. skip is the number of callers to omit beyond
// Capture itself: 0 starts the capture at Capture's caller.
func Capture(skip int) []Frame {
	pc := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, pc)
	if n == 0 {
		return nil
	}

	iter := runtime.CallersFrames(pc[:n])
	var raw []runtime.Frame
	for {
		f, more := iter.Next()
		raw = append(raw, f)
		if !more {
			break
		}
	}

	// Pair each function with its caller's location. The runtime reports a
	// frame's file and line as the execution point inside that frame, which
	// is exactly the call site of the frame above it.
	out := make([]Frame, 0, len(raw))
	for i := range raw {
		frame := Frame{
			Function: raw[i].Function,
			Index:    i,
		}
		if i+1 < len(raw) {
			frame.File = raw[i+1].File
			frame.Line = raw[i+1].Line
		}
		out = append(out, frame)
	}
	return out
}
