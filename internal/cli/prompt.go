package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/hadoopbox/hadoopbox/internal/config"
)

// prompter gathers operator decisions for guarded operations. It implements
// pipeline.Decider, turning flags or y/n answers into Dispositions so the
// stages themselves never touch stdin.
type prompter struct {
	in  io.Reader
	out io.Writer

	interactive bool // stdin is a terminal
	assumeYes   bool // --yes: confirm destructive prompts
	reuse       bool // --reuse-existing
	replace     bool // --replace-existing
}

func newPrompter(assumeYes, reuse, replace bool) *prompter {
	return &prompter{
		in:          os.Stdin,
		out:         os.Stderr,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
		assumeYes:   assumeYes,
		reuse:       reuse,
		replace:     replace,
	}
}

// InstallConflict resolves a pre-existing component install. Flags win over
// prompting; a non-interactive run without flags keeps the existing tree.
func (p *prompter) InstallConflict(component string) config.Disposition {
	switch {
	case p.replace:
		return config.DispositionReplace
	case p.reuse:
		return config.DispositionReuse
	}

	if p.ask(fmt.Sprintf("%s is already installed. Replace it (deletes the existing tree)?", component)) {
		return config.DispositionReplace
	}
	return config.DispositionReuse
}

// ReformatStore gates the destructive reformat of a populated metadata
// store. Only --yes or an explicit interactive "y" proceeds.
func (p *prompter) ReformatStore() config.Disposition {
	if p.assumeYes {
		return config.DispositionProceed
	}
	if p.ask("Metadata store already contains data. Reformat it (destroys all stored data)?") {
		return config.DispositionProceed
	}
	return config.DispositionAbort
}

// ConfirmUninstall gates the teardown itself.
func (p *prompter) ConfirmUninstall(base string) bool {
	if p.assumeYes {
		return true
	}
	return p.ask(fmt.Sprintf("Remove the entire stack under %s?", base))
}

// ask poses a y/n question. Non-interactive stdin always answers no: the
// default for every guarded operation is the non-destructive path.
func (p *prompter) ask(question string) bool {
	if !p.interactive {
		return false
	}

	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
