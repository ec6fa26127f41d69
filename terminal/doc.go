// Package terminal provides direct ANSI terminal control and raw input decoding.
//
// Features:
//   - True color (24-bit), 256-color palette and terminal-default colors
//   - Raw stdin input decoding with an escape-timeout state machine
//   - Key, mouse (SGR and X10) and bracketed paste events
//   - SIGWINCH resize detection
//   - Clean terminal restoration on exit/panic
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
