package environment

import (
	"fmt"
	"strings"
)

// Shells accepted by Render.
const (
	ShellBash = "bash"
	ShellSh   = "sh"
	ShellZsh  = "zsh"
	ShellKsh  = "ksh"
	ShellCsh  = "csh"
	ShellTcsh = "tcsh"
)

// SupportedShells returns the shell names Render accepts.
func SupportedShells() []string {
	return []string{ShellBash, ShellSh, ShellZsh, ShellKsh, ShellCsh, ShellTcsh}
}

// Render emits the environment as source-able script for the given shell.
// Bourne family shells get export lines, csh family shells get setenv
// lines.
func (e *Environment) Render(shell string) (string, error) {
	var b strings.Builder

	switch shell {
	case ShellBash, ShellSh, ShellZsh, ShellKsh:
		for _, v := range e.Variables {
			fmt.Fprintf(&b, "export %s=\"%s\"\n", v.Key, v.Value)
		}

	case ShellCsh, ShellTcsh:
		for _, v := range e.Variables {
			fmt.Fprintf(&b, "setenv %s \"%s\"\n", v.Key, v.Value)
		}

	default:
		return "", fmt.Errorf("unsupported shell %q, supported shells: %s",
			shell, strings.Join(SupportedShells(), ", "))
	}

	return b.String(), nil
}
