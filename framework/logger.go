package framework

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// MaxCapturedMessageLength is the longest message a CapturingLogger keeps. Search responses
// against a long-lived service can hold thousands of records, so longer messages are cut.
const MaxCapturedMessageLength = 4000

// Logger is the minimal logging interface used throughout the harness. *log.Logger satisfies it.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

func NullLogger() Logger { return nullLogger{} }

// CapturedMessage is one line of a scenario's debug output, usually a request or a response.
type CapturedMessage struct {
	Time    time.Time
	Message string
}

type CapturedOutput []CapturedMessage

// CapturingLogger keeps the debug output of one scenario in memory so it can be shown later,
// typically only if the scenario has failed.
type CapturingLogger struct {
	output []CapturedMessage
	lock   sync.Mutex
	now    func() time.Time
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	text := fmt.Sprintf(message, args...)
	if len(text) > MaxCapturedMessageLength {
		text = fmt.Sprintf("%s... (%d more bytes)", text[:MaxCapturedMessageLength], len(text)-MaxCapturedMessageLength)
	}
	l.lock.Lock()
	l.output = append(l.output, CapturedMessage{Time: now(), Message: text})
	l.lock.Unlock()
}

func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append([]CapturedMessage(nil), l.output...)
	l.lock.Unlock()
	return ret
}

// Dump writes every message with the time elapsed since the first one, which makes a slow
// response easy to spot. Continuation lines of a multi-line message, such as a pretty-printed
// response body, are indented under the first line.
func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	if len(output) == 0 {
		return
	}
	start := output[0].Time
	for _, m := range output {
		stamp := fmt.Sprintf("[+%.3fs] ", m.Time.Sub(start).Seconds())
		lines := strings.Split(strings.TrimRight(m.Message, "\n"), "\n")
		fmt.Fprintf(dest, "%s%s%s\n", prefix, stamp, lines[0])
		indent := strings.Repeat(" ", len(stamp))
		for _, line := range lines[1:] {
			fmt.Fprintf(dest, "%s%s%s\n", prefix, indent, line)
		}
	}
}
