// Package logs reads the mediascan log file for the `mediascan logs`
// command.
//
// Last returns the trailing lines of the file with bounded memory, and
// Follow polls from an offset and hands every appended line to a callback
// until the context ends. A missing file is treated as empty so the command
// works before the first scan has logged anything.
package logs
