package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// messageFormatter prints only the message: the log is the report.
type messageFormatter struct{}

func (messageFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if len(entry.Data) == 0 {
		return []byte(entry.Message + "\n"), nil
	}
	return []byte(fmt.Sprintf("%s %v\n", entry.Message, entry.Data)), nil
}

// newLogger creates the report logger at level, writing to stderr and, when
// logFile is set, to that file as well. The returned close func releases the file.
func newLogger(level, logFile string) (*logrus.Logger, func() error, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	l := logrus.New()
	l.SetLevel(lvl)
	l.SetFormatter(messageFormatter{})

	closer := func() error { return nil }
	var out io.Writer = os.Stderr
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(os.Stderr, f)
		closer = f.Close
	}
	l.SetOutput(out)
	return l, closer, nil
}
